// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/models"
)

// DefaultTimeout bounds a single validation
const DefaultTimeout = 12 * time.Second

// Operator-facing messages
const (
	msgValidated   = "Ticket validated successfully."
	msgFailed      = "Failed to validate ticket. Please try again."
	msgRejected    = "Ticket is not valid for entry."
	msgUnreadable  = "Unrecognized ticket code."
	msgBadIdentity = "Ticket code contains an invalid ticket or owner number."
)

// Gate admits one scan at a time. While a validation is in flight, or a
// success is waiting for the operator to acknowledge it, further scans are
// dropped. Failures re-arm the gate immediately so the operator can rescan.
type Gate struct {
	validator Validator
	sink      Sink
	timeout   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	active      bool
	locked      bool
	awaitingAck bool
	inFlight    bool
	generation  uint64
	cancel      context.CancelFunc
	last        *models.Feedback

	wg sync.WaitGroup
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithValidateTimeout bounds each validation; 0 disables the bound.
func WithValidateTimeout(d time.Duration) GateOption {
	return func(g *Gate) { g.timeout = d }
}

// WithClock sets the time source used to stamp feedback.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// NewGate returns an active, armed gate.
func NewGate(v Validator, sink Sink, opts ...GateOption) *Gate {
	if sink == nil {
		sink = MultiSink(nil)
	}
	g := &Gate{
		validator: v,
		sink:      sink,
		timeout:   DefaultTimeout,
		now:       time.Now,
		active:    true,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Scan offers a raw payload to the gate. It reports whether the payload was
// admitted; decoding and validation then run in the background.
func (g *Gate) Scan(raw string) bool {
	g.mu.Lock()
	if !g.active || g.locked {
		g.mu.Unlock()
		return false
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if g.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), g.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	g.locked = true
	g.inFlight = true
	g.cancel = cancel
	gen := g.generation
	g.wg.Add(1)
	g.mu.Unlock()

	go g.process(ctx, cancel, gen, raw)
	return true
}

// Acknowledge re-arms a gate holding an unacknowledged success.
// It reports false when there is nothing to acknowledge.
func (g *Gate) Acknowledge() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.awaitingAck {
		return false
	}
	g.awaitingAck = false
	g.locked = false
	return true
}

// Activate resets the gate to armed, as when the scan screen is shown again.
// A validation still in flight is cancelled and its result discarded.
func (g *Gate) Activate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
	g.active = true
}

// Deactivate stops admitting scans and discards any in-flight result, as
// when the scan screen is torn down.
func (g *Gate) Deactivate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
	g.active = false
}

func (g *Gate) resetLocked() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.generation++
	g.locked = false
	g.awaitingAck = false
	g.inFlight = false
}

// Status returns a snapshot of the gate
func (g *Gate) Status() models.GateStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := models.GateStatus{
		State:       models.StateArmed,
		Active:      g.active,
		AwaitingAck: g.awaitingAck,
		InFlight:    g.inFlight,
	}
	if g.locked || !g.active {
		st.State = models.StateLocked
	}
	if g.last != nil {
		fb := *g.last
		st.LastFeedback = &fb
	}
	return st
}

// Wait blocks until no admitted scan is still being processed
func (g *Gate) Wait() {
	g.wg.Wait()
}

func (g *Gate) process(ctx context.Context, cancel context.CancelFunc, gen uint64, raw string) {
	defer g.wg.Done()
	defer cancel()

	fb, rearm := g.run(ctx, raw)
	fb.Payload = raw
	fb.At = g.now()

	g.mu.Lock()
	if gen != g.generation {
		g.mu.Unlock()
		slog.Debug("discarding stale scan result", "payload", raw, "kind", fb.Kind)
		return
	}
	g.inFlight = false
	g.cancel = nil
	g.last = &fb
	if !rearm {
		g.awaitingAck = true
	}
	g.mu.Unlock()

	// Feedback goes out before the gate re-arms
	g.sink.Notify(fb)

	if rearm {
		g.mu.Lock()
		if gen == g.generation {
			g.locked = false
		}
		g.mu.Unlock()
	}
}

// run decodes and validates one payload. It never panics; anything
// unexpected is reported as a network failure so the gate re-arms.
func (g *Gate) run(ctx context.Context, raw string) (fb models.Feedback, rearm bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing scan", "panic", r, "payload", raw)
			fb = failureFeedback(nil, Failure(ErrNetwork, fmt.Errorf("panic: %v", r)))
			rearm = true
		}
	}()

	id, err := Decode(raw)
	if err != nil {
		return decodeFeedback(err), true
	}

	outcome := g.validate(ctx, id)
	if outcome.OK() {
		return models.Feedback{
			Kind:     models.KindSuccess,
			Message:  msgValidated,
			Identity: &id,
		}, false
	}
	return failureFeedback(&id, outcome), true
}

// validate runs the validator but stops waiting once ctx is done, so a
// validator that ignores its context cannot hold the gate locked.
func (g *Gate) validate(ctx context.Context, id models.TicketIdentity) Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in validator", "panic", r, "ticket_id", id.TicketID)
				done <- Failure(ErrNetwork, fmt.Errorf("panic: %v", r))
			}
		}()
		done <- g.validator.Validate(ctx, id)
	}()

	select {
	case o := <-done:
		return o
	case <-ctx.Done():
		return Failure(ErrNetwork, ctx.Err())
	}
}

func decodeFeedback(err error) models.Feedback {
	msg := msgUnreadable
	if errors.Is(err, ErrInvalidIdentity) {
		msg = msgBadIdentity
	}
	return models.Feedback{Kind: models.KindDecodeError, Message: msg}
}

func failureFeedback(id *models.TicketIdentity, o Outcome) models.Feedback {
	fb := models.Feedback{
		Kind:     models.KindFailure,
		Reason:   o.Reason(),
		Message:  msgFailed,
		Identity: id,
	}
	if fb.Reason == models.ReasonRemoteRejected {
		fb.Message = msgRejected
		var apiErr *api.Error
		if errors.As(o.Err, &apiErr) && apiErr.Message != "" {
			fb.Message = apiErr.Message
		}
	}
	return fb
}
