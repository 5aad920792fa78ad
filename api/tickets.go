// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"context"

	"github.com/danielhkuo/scanstation/models"
)

// ValidateTicket calls POST /ticket/validate.
// A nil error means the backend accepted the ticket for entry.
func (c *Client) ValidateTicket(ctx context.Context, id models.TicketIdentity) error {
	return c.do(ctx, "POST", "/ticket/validate", models.ValidateTicketRequest{
		TicketID: id.TicketID,
		OwnerID:  id.OwnerID,
	}, nil)
}
