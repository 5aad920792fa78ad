// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/models"
)

var (
	ErrNetwork        = errors.New("network error")
	ErrRemoteRejected = errors.New("ticket rejected")
)

// Outcome is the result of one validation. Err is nil on success and
// wraps ErrNetwork or ErrRemoteRejected otherwise.
type Outcome struct {
	Err error
}

func Success() Outcome {
	return Outcome{}
}

func Failure(reason error, cause error) Outcome {
	if cause == nil {
		return Outcome{Err: reason}
	}
	return Outcome{Err: fmt.Errorf("%w: %w", reason, cause)}
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Reason returns the models.Reason* constant for a failed outcome
func (o Outcome) Reason() string {
	switch {
	case o.Err == nil:
		return ""
	case errors.Is(o.Err, ErrRemoteRejected):
		return models.ReasonRemoteRejected
	default:
		return models.ReasonNetworkError
	}
}

// Validator checks a ticket identity with the issuing authority.
type Validator interface {
	Validate(ctx context.Context, id models.TicketIdentity) Outcome
}

// TicketValidator is the slice of api.Client that RemoteValidator needs
type TicketValidator interface {
	ValidateTicket(ctx context.Context, id models.TicketIdentity) error
}

// RemoteValidator validates against the events backend. It makes exactly
// one call per Validate and keeps no cache: tickets are single-entry, so a
// stale answer would let a ticket in twice.
type RemoteValidator struct {
	backend TicketValidator
}

func NewRemoteValidator(backend TicketValidator) *RemoteValidator {
	return &RemoteValidator{backend: backend}
}

func (v *RemoteValidator) Validate(ctx context.Context, id models.TicketIdentity) Outcome {
	err := v.backend.ValidateTicket(ctx, id)
	if err == nil {
		return Success()
	}
	return classify(err)
}

// classify maps a backend error to a failure reason. Only an explicit 4xx
// from the backend counts as a rejection; anything else may be transient.
func classify(err error) Outcome {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Rejected() {
		return Failure(ErrRemoteRejected, err)
	}
	return Failure(ErrNetwork, err)
}

// ValidatorFunc adapts a function to the Validator interface
type ValidatorFunc func(ctx context.Context, id models.TicketIdentity) Outcome

func (f ValidatorFunc) Validate(ctx context.Context, id models.TicketIdentity) Outcome {
	return f(ctx, id)
}
