// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"context"
	"strconv"

	"github.com/danielhkuo/scanstation/models"
)

// CreateEvent calls POST /event.
func (c *Client) CreateEvent(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	var out models.Event
	err := c.do(ctx, "POST", "/event", req, &out)
	return &out, err
}

// GetEvent calls GET /event/{id}.
func (c *Client) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var out models.Event
	err := c.do(ctx, "GET", "/event/"+strconv.FormatInt(id, 10), nil, &out)
	return &out, err
}

// ListEvents calls GET /event.
func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	out := []models.Event{}
	err := c.do(ctx, "GET", "/event", nil, &out)
	return out, err
}

// UpdateEvent calls PUT /event/{id}.
func (c *Client) UpdateEvent(ctx context.Context, id int64, req models.EventRequest) (*models.Event, error) {
	var out models.Event
	err := c.do(ctx, "PUT", "/event/"+strconv.FormatInt(id, 10), req, &out)
	return &out, err
}

// DeleteEvent calls DELETE /event/{id}.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, "DELETE", "/event/"+strconv.FormatInt(id, 10), nil, nil)
}
