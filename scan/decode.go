// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/scanstation/models"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidIdentity  = errors.New("invalid identity")
)

// Payload keys
const (
	keyTicket = "ticket"
	keyOwner  = "owner"
)

// Decode parses a ticket QR payload of the form "ticket:<id>,owner:<id>".
// Fields are matched by key, so "owner:<id>,ticket:<id>" decodes the same.
func Decode(raw string) (models.TicketIdentity, error) {
	var id models.TicketIdentity

	segments := strings.Split(raw, ",")
	if len(segments) != 2 {
		return id, fmt.Errorf("%w: expected 2 segments, got %d", ErrMalformedPayload, len(segments))
	}

	values := make(map[string]string, 2)
	for _, seg := range segments {
		parts := strings.Split(seg, ":")
		if len(parts) != 2 {
			return id, fmt.Errorf("%w: segment %q is not key:value", ErrMalformedPayload, seg)
		}

		key := strings.TrimSpace(parts[0])
		if key != keyTicket && key != keyOwner {
			return id, fmt.Errorf("%w: unknown key %q", ErrMalformedPayload, key)
		}
		if _, dup := values[key]; dup {
			return id, fmt.Errorf("%w: duplicate key %q", ErrMalformedPayload, key)
		}
		values[key] = strings.TrimSpace(parts[1])
	}

	var err error
	if id.TicketID, err = parseID(keyTicket, values[keyTicket]); err != nil {
		return models.TicketIdentity{}, err
	}
	if id.OwnerID, err = parseID(keyOwner, values[keyOwner]); err != nil {
		return models.TicketIdentity{}, err
	}
	return id, nil
}

// parseID accepts base-10 digits only; signs are rejected
func parseID(key, value string) (int64, error) {
	n, err := strconv.ParseUint(value, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a non-negative integer", ErrInvalidIdentity, key, value)
	}
	return int64(n), nil
}
