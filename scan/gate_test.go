// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/models"
)

// recordingSink keeps every feedback event it receives
type recordingSink struct {
	mu     sync.Mutex
	events []models.Feedback
}

func (s *recordingSink) Notify(fb models.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fb)
}

func (s *recordingSink) Events() []models.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Feedback(nil), s.events...)
}

// countingValidator returns a fixed outcome and counts calls
type countingValidator struct {
	calls   atomic.Int32
	outcome Outcome
}

func (v *countingValidator) Validate(ctx context.Context, id models.TicketIdentity) Outcome {
	v.calls.Add(1)
	return v.outcome
}

func TestGate_SuccessRequiresAcknowledgment(t *testing.T) {
	sink := &recordingSink{}
	v := &countingValidator{outcome: Success()}
	g := NewGate(v, sink)

	if !g.Scan("ticket:1,owner:2") {
		t.Fatal("Expected armed gate to admit scan")
	}
	g.Wait()

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("Expected 1 feedback event, got %d", len(events))
	}
	if events[0].Kind != models.KindSuccess {
		t.Errorf("Expected success, got %s", events[0].Kind)
	}
	if events[0].Identity == nil || *events[0].Identity != (models.TicketIdentity{TicketID: 1, OwnerID: 2}) {
		t.Errorf("Expected identity {1 2}, got %+v", events[0].Identity)
	}
	if events[0].Payload != "ticket:1,owner:2" {
		t.Errorf("Expected payload to be recorded, got '%s'", events[0].Payload)
	}

	st := g.Status()
	if st.State != models.StateLocked || !st.AwaitingAck {
		t.Errorf("Expected locked awaiting ack, got %+v", st)
	}

	if g.Scan("ticket:1,owner:2") {
		t.Error("Expected scan to be dropped before acknowledgment")
	}

	if !g.Acknowledge() {
		t.Fatal("Expected acknowledgment to succeed")
	}
	if st := g.Status(); st.State != models.StateArmed || st.AwaitingAck {
		t.Errorf("Expected armed after acknowledgment, got %+v", st)
	}
	if g.Acknowledge() {
		t.Error("Expected second acknowledgment to be a no-op")
	}
	if v.calls.Load() != 1 {
		t.Errorf("Expected 1 validator call, got %d", v.calls.Load())
	}
}

func TestGate_FailureRearmsImmediately(t *testing.T) {
	sink := &recordingSink{}
	v := &countingValidator{outcome: Failure(ErrNetwork, errors.New("connection refused"))}
	g := NewGate(v, sink)

	g.Scan("ticket:1,owner:2")
	g.Wait()

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("Expected 1 feedback event, got %d", len(events))
	}
	if events[0].Kind != models.KindFailure || events[0].Reason != models.ReasonNetworkError {
		t.Errorf("Expected network failure, got %+v", events[0])
	}
	if events[0].Message != msgFailed {
		t.Errorf("Expected message '%s', got '%s'", msgFailed, events[0].Message)
	}

	if st := g.Status(); st.State != models.StateArmed || st.AwaitingAck {
		t.Errorf("Expected armed without acknowledgment, got %+v", st)
	}
	if g.Acknowledge() {
		t.Error("Expected nothing to acknowledge after failure")
	}
	if !g.Scan("ticket:1,owner:2") {
		t.Error("Expected retry scan to be admitted")
	}
	g.Wait()
}

func TestGate_DecodeErrorSkipsValidator(t *testing.T) {
	testCases := []struct {
		raw     string
		message string
	}{
		{"bad-data", msgUnreadable},
		{"ticket:abc,owner:2", msgBadIdentity},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			sink := &recordingSink{}
			v := &countingValidator{outcome: Success()}
			g := NewGate(v, sink)

			if !g.Scan(tc.raw) {
				t.Fatal("Expected scan to be admitted")
			}
			g.Wait()

			events := sink.Events()
			if len(events) != 1 || events[0].Kind != models.KindDecodeError {
				t.Fatalf("Expected 1 decode_error event, got %+v", events)
			}
			if events[0].Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, events[0].Message)
			}
			if events[0].Identity != nil {
				t.Error("Expected no identity on decode error")
			}
			if v.calls.Load() != 0 {
				t.Errorf("Expected validator not to be called, got %d calls", v.calls.Load())
			}
			if g.Status().State != models.StateArmed {
				t.Error("Expected gate to re-arm after decode error")
			}
		})
	}
}

func TestGate_NoOverlappingValidations(t *testing.T) {
	sink := &recordingSink{}
	release := make(chan struct{})
	var inFlight, maxInFlight, calls atomic.Int32

	v := ValidatorFunc(func(ctx context.Context, id models.TicketIdentity) Outcome {
		calls.Add(1)
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		if n > 1 {
			t.Errorf("Expected at most 1 concurrent validation, got %d", n)
		}
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		<-release
		return Failure(ErrNetwork, nil)
	})
	g := NewGate(v, sink)

	if !g.Scan("ticket:1,owner:2") {
		t.Fatal("Expected first scan to be admitted")
	}

	// A reader fires many events while the code stays in frame
	var wg sync.WaitGroup
	var admitted atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Scan("ticket:1,owner:2") {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if admitted.Load() != 0 {
		t.Errorf("Expected all scans to be dropped while locked, %d admitted", admitted.Load())
	}
	if !g.Status().InFlight {
		t.Error("Expected a validation in flight")
	}

	close(release)
	g.Wait()

	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 validator call, got %d", calls.Load())
	}
	if maxInFlight.Load() != 1 {
		t.Errorf("Expected max 1 in flight, got %d", maxInFlight.Load())
	}
	if len(sink.Events()) != 1 {
		t.Errorf("Expected 1 feedback event, got %d", len(sink.Events()))
	}
}

func TestGate_TimeoutForcesNetworkFailure(t *testing.T) {
	sink := &recordingSink{}
	hang := make(chan struct{})
	defer close(hang)

	// Ignores its context on purpose
	v := ValidatorFunc(func(ctx context.Context, id models.TicketIdentity) Outcome {
		<-hang
		return Success()
	})
	g := NewGate(v, sink, WithValidateTimeout(20*time.Millisecond))

	g.Scan("ticket:1,owner:2")
	g.Wait()

	events := sink.Events()
	if len(events) != 1 || events[0].Kind != models.KindFailure {
		t.Fatalf("Expected 1 failure event, got %+v", events)
	}
	if events[0].Reason != models.ReasonNetworkError {
		t.Errorf("Expected network_error, got %s", events[0].Reason)
	}
	if g.Status().State != models.StateArmed {
		t.Error("Expected gate to re-arm after timeout")
	}
}

func TestGate_DeactivateDiscardsInFlight(t *testing.T) {
	sink := &recordingSink{}
	started := make(chan struct{})
	v := ValidatorFunc(func(ctx context.Context, id models.TicketIdentity) Outcome {
		close(started)
		<-ctx.Done()
		return Failure(ErrNetwork, ctx.Err())
	})
	g := NewGate(v, sink, WithValidateTimeout(0))

	g.Scan("ticket:1,owner:2")
	<-started
	g.Deactivate()
	g.Wait()

	if n := len(sink.Events()); n != 0 {
		t.Errorf("Expected stale result to be discarded, got %d events", n)
	}

	st := g.Status()
	if st.Active || st.State != models.StateLocked {
		t.Errorf("Expected inactive locked gate, got %+v", st)
	}
	if g.Scan("ticket:1,owner:2") {
		t.Error("Expected inactive gate to drop scans")
	}

	g.Activate()
	if st := g.Status(); !st.Active || st.State != models.StateArmed {
		t.Errorf("Expected armed after activation, got %+v", st)
	}
}

func TestGate_ActivateResetsAwaitingAck(t *testing.T) {
	sink := &recordingSink{}
	g := NewGate(&countingValidator{outcome: Success()}, sink)

	g.Scan("ticket:1,owner:2")
	g.Wait()
	if !g.Status().AwaitingAck {
		t.Fatal("Expected gate to await acknowledgment")
	}

	g.Activate()
	if st := g.Status(); st.State != models.StateArmed || st.AwaitingAck {
		t.Errorf("Expected armed after re-activation, got %+v", st)
	}
	if !g.Scan("ticket:3,owner:4") {
		t.Error("Expected scan to be admitted after re-activation")
	}
	g.Wait()
}

func TestGate_ActivateDuringFlightDropsOldResult(t *testing.T) {
	sink := &recordingSink{}
	var calls atomic.Int32
	first := make(chan struct{})

	v := ValidatorFunc(func(ctx context.Context, id models.TicketIdentity) Outcome {
		if calls.Add(1) == 1 {
			close(first)
			<-ctx.Done()
			return Failure(ErrNetwork, ctx.Err())
		}
		return Success()
	})
	g := NewGate(v, sink)

	g.Scan("ticket:1,owner:2")
	<-first
	g.Activate()

	if !g.Scan("ticket:5,owner:6") {
		t.Fatal("Expected scan to be admitted after re-activation")
	}
	g.Wait()

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("Expected only the new scan's feedback, got %+v", events)
	}
	if events[0].Kind != models.KindSuccess || events[0].Identity.TicketID != 5 {
		t.Errorf("Expected success for ticket 5, got %+v", events[0])
	}
}

func TestGate_ValidatorPanicRearms(t *testing.T) {
	sink := &recordingSink{}
	v := ValidatorFunc(func(ctx context.Context, id models.TicketIdentity) Outcome {
		panic("validator exploded")
	})
	g := NewGate(v, sink)

	g.Scan("ticket:1,owner:2")
	g.Wait()

	events := sink.Events()
	if len(events) != 1 || events[0].Kind != models.KindFailure || events[0].Reason != models.ReasonNetworkError {
		t.Fatalf("Expected 1 network failure, got %+v", events)
	}
	if g.Status().State != models.StateArmed {
		t.Error("Expected gate to re-arm after panic")
	}
}

func TestGate_FeedbackBeforeRearm(t *testing.T) {
	var order []string
	var mu sync.Mutex
	var g *Gate

	sink := SinkFunc(func(fb models.Feedback) {
		mu.Lock()
		defer mu.Unlock()
		// Feedback is delivered before the gate re-arms
		order = append(order, g.Status().State)
	})
	g = NewGate(&countingValidator{outcome: Failure(ErrNetwork, nil)}, sink)

	g.Scan("ticket:1,owner:2")
	g.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 1 || order[0] != models.StateLocked {
		t.Errorf("Expected gate still locked during notify, got %v", order)
	}
	if g.Status().State != models.StateArmed {
		t.Error("Expected armed after notify")
	}
}

func TestGate_LastFeedbackAndClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC)
	g := NewGate(&countingValidator{outcome: Success()}, nil, WithClock(func() time.Time { return fixed }))

	if g.Status().LastFeedback != nil {
		t.Error("Expected no feedback before first scan")
	}

	g.Scan("owner:5,ticket:10")
	g.Wait()

	last := g.Status().LastFeedback
	if last == nil {
		t.Fatal("Expected last feedback")
	}
	if !last.At.Equal(fixed) {
		t.Errorf("Expected feedback stamped %v, got %v", fixed, last.At)
	}
	if last.Identity.TicketID != 10 || last.Identity.OwnerID != 5 {
		t.Errorf("Expected ticket 10 owner 5, got %+v", last.Identity)
	}
}

type fakeBackend struct {
	err error
}

func (f fakeBackend) ValidateTicket(ctx context.Context, id models.TicketIdentity) error {
	return f.err
}

func TestRemoteValidator_Classification(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		ok      bool
		reason  string
		message string
	}{
		{"Accepted", nil, true, "", msgValidated},
		{"AlreadyUsed", &api.Error{Status: 409, Message: "Ticket already used"}, false, models.ReasonRemoteRejected, "Ticket already used"},
		{"WrongOwner", &api.Error{Status: 403}, false, models.ReasonRemoteRejected, msgRejected},
		{"ServerError", &api.Error{Status: 500, Message: "db down"}, false, models.ReasonNetworkError, msgFailed},
		{"Transport", errors.New("dial tcp: connection refused"), false, models.ReasonNetworkError, msgFailed},
		{"Deadline", context.DeadlineExceeded, false, models.ReasonNetworkError, msgFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewRemoteValidator(fakeBackend{err: tc.err})
			out := v.Validate(context.Background(), models.TicketIdentity{TicketID: 1, OwnerID: 2})

			if out.OK() != tc.ok {
				t.Fatalf("Expected OK()=%v, got %v (%v)", tc.ok, out.OK(), out.Err)
			}
			if out.Reason() != tc.reason {
				t.Errorf("Expected reason '%s', got '%s'", tc.reason, out.Reason())
			}
			if tc.err != nil && !errors.Is(out.Err, tc.err) {
				t.Errorf("Expected outcome to wrap the backend error")
			}

			sink := &recordingSink{}
			g := NewGate(v, sink)
			g.Scan("ticket:1,owner:2")
			g.Wait()
			if events := sink.Events(); len(events) != 1 || events[0].Message != tc.message {
				t.Errorf("Expected message '%s', got %+v", tc.message, events)
			}
		})
	}
}
