// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/scanstation/models"
)

var ErrNoToken = errors.New("backend returned no token")

// Login calls POST /auth/login and stores the token in the client session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Register calls POST /auth/register and stores the token in the client session.
func (c *Client) Register(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	err := c.do(ctx, "POST", path, models.Credentials{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrNoToken
	}
	if err := c.session.Set(out.Token, &out.User); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &out, nil
}

// Logout drops the session token. The backend keeps no logout endpoint.
func (c *Client) Logout() {
	c.session.Clear()
}
