// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/db"
	"github.com/danielhkuo/scanstation/journal"
	"github.com/danielhkuo/scanstation/models"
	"github.com/danielhkuo/scanstation/scan"
	"github.com/danielhkuo/scanstation/testutil"
)

type scanFixture struct {
	handler *ScanHandler
	gate    *scan.Gate
	demo    *scan.DemoSource
	journal *journal.Journal
	backend *testutil.FakeBackend
}

// newScanFixture wires a gate to the fake backend through the real client,
// with the journal as the only sink.
func newScanFixture(t *testing.T, valid ...models.TicketIdentity) *scanFixture {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	backend := testutil.NewFakeBackend(t, valid...)
	client := api.New(backend.URL, nil)
	if _, err := client.Login(context.Background(), testutil.TestEmail, testutil.TestPassword); err != nil {
		t.Fatalf("login: %v", err)
	}

	j := journal.New(conn, db.TypeSQLite)
	gate := scan.NewGate(scan.NewRemoteValidator(client), j, scan.WithValidateTimeout(2*time.Second))
	t.Cleanup(gate.Wait)

	demo := scan.NewDemoSource(scan.DemoPayload)
	return &scanFixture{
		handler: NewScanHandler(gate, demo, j),
		gate:    gate,
		demo:    demo,
		journal: j,
		backend: backend,
	}
}

func (f *scanFixture) submit(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("POST", "/scans", models.ScanRequest{Payload: payload}, nil)
	w := httptest.NewRecorder()
	f.handler.Submit(w, req)
	return w
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		expected int
	}{
		{"valid payload", models.ScanRequest{Payload: "ticket:1,owner:2"}, http.StatusAccepted},
		{"unreadable payload still admitted", models.ScanRequest{Payload: "hello"}, http.StatusAccepted},
		{"empty payload", models.ScanRequest{Payload: "  "}, http.StatusBadRequest},
		{"missing body", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScanFixture(t)

			req := testutil.MakeRequest("POST", "/scans", tt.body, nil)
			w := httptest.NewRecorder()
			f.handler.Submit(w, req)

			testutil.AssertStatus(t, w, tt.expected)
		})
	}
}

func TestSubmit_SuccessLocksUntilAck(t *testing.T) {
	f := newScanFixture(t, models.TicketIdentity{TicketID: 1, OwnerID: 2})

	w := f.submit(t, "ticket:1,owner:2")
	testutil.AssertStatus(t, w, http.StatusAccepted)

	var resp models.ScanResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Admitted {
		t.Error("Expected first scan to be admitted")
	}
	if resp.Status.State != models.StateLocked {
		t.Errorf("Expected locked gate after admission, got %s", resp.Status.State)
	}

	f.gate.Wait()

	// Still locked: the success waits for the operator
	w = f.submit(t, "ticket:1,owner:2")
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = httptest.NewRecorder()
	f.handler.Status(w, httptest.NewRequest("GET", "/scans/status", nil))
	var st models.GateStatus
	testutil.AssertJSON(t, w, &st)
	if !st.AwaitingAck {
		t.Error("Expected gate to await acknowledgment")
	}
	if st.LastFeedback == nil || st.LastFeedback.Kind != models.KindSuccess {
		t.Fatalf("Expected success feedback, got %+v", st.LastFeedback)
	}

	w = httptest.NewRecorder()
	f.handler.Acknowledge(w, httptest.NewRequest("POST", "/scans/ack", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Rescanning the same ticket is rejected by the backend
	w = f.submit(t, "ticket:1,owner:2")
	testutil.AssertStatus(t, w, http.StatusAccepted)
	f.gate.Wait()

	st = f.gate.Status()
	if st.State != models.StateArmed {
		t.Errorf("Expected armed gate after rejection, got %s", st.State)
	}
	if st.LastFeedback.Kind != models.KindFailure || st.LastFeedback.Reason != models.ReasonRemoteRejected {
		t.Errorf("Expected remote rejection, got %+v", st.LastFeedback)
	}
	if st.LastFeedback.Message != "Ticket already used" {
		t.Errorf("Expected backend message, got %q", st.LastFeedback.Message)
	}
}

func TestSubmit_BackendDownRearms(t *testing.T) {
	f := newScanFixture(t, models.TicketIdentity{TicketID: 1, OwnerID: 2})
	f.backend.FailAll(true)

	testutil.AssertStatus(t, f.submit(t, "ticket:1,owner:2"), http.StatusAccepted)
	f.gate.Wait()

	st := f.gate.Status()
	if st.State != models.StateArmed {
		t.Errorf("Expected armed gate, got %s", st.State)
	}
	if st.LastFeedback.Reason != models.ReasonNetworkError {
		t.Errorf("Expected network error, got %q", st.LastFeedback.Reason)
	}
}

func TestSubmit_DecodeErrorSkipsBackend(t *testing.T) {
	f := newScanFixture(t)

	testutil.AssertStatus(t, f.submit(t, "ticket:x,owner:2"), http.StatusAccepted)
	f.gate.Wait()

	if n := f.backend.Validations(); n != 0 {
		t.Errorf("Expected no backend calls, got %d", n)
	}
	if kind := f.gate.Status().LastFeedback.Kind; kind != models.KindDecodeError {
		t.Errorf("Expected decode_error, got %s", kind)
	}
}

func TestAcknowledge_NothingPending(t *testing.T) {
	f := newScanFixture(t)

	w := httptest.NewRecorder()
	f.handler.Acknowledge(w, httptest.NewRequest("POST", "/scans/ack", nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestDemo(t *testing.T) {
	f := newScanFixture(t)

	w := httptest.NewRecorder()
	f.handler.Demo(w, httptest.NewRequest("POST", "/scans/demo", nil))
	testutil.AssertStatus(t, w, http.StatusAccepted)

	// Nothing consumes the source, so the second trigger is refused
	w = httptest.NewRecorder()
	f.handler.Demo(w, httptest.NewRequest("POST", "/scans/demo", nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestDeactivateAndActivate(t *testing.T) {
	f := newScanFixture(t)

	w := httptest.NewRecorder()
	f.handler.Deactivate(w, httptest.NewRequest("POST", "/scans/deactivate", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var st models.GateStatus
	testutil.AssertJSON(t, w, &st)
	if st.Active {
		t.Error("Expected inactive gate")
	}

	testutil.AssertStatus(t, f.submit(t, "ticket:1,owner:2"), http.StatusConflict)

	w = httptest.NewRecorder()
	f.handler.Activate(w, httptest.NewRequest("POST", "/scans/activate", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	testutil.AssertStatus(t, f.submit(t, "ticket:1,owner:2"), http.StatusAccepted)
}

func TestHistoryAndStats(t *testing.T) {
	f := newScanFixture(t, models.TicketIdentity{TicketID: 1, OwnerID: 2})

	for _, payload := range []string{"nonsense", "ticket:9,owner:9", "ticket:1,owner:2"} {
		testutil.AssertStatus(t, f.submit(t, payload), http.StatusAccepted)
		f.gate.Wait()
	}

	w := httptest.NewRecorder()
	f.handler.History(w, httptest.NewRequest("GET", "/scans/history?limit=2", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var history models.HistoryResponse
	testutil.AssertJSON(t, w, &history)
	if len(history.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(history.Records))
	}
	if history.Records[0].Kind != models.KindSuccess {
		t.Errorf("Expected newest record to be the success, got %s", history.Records[0].Kind)
	}
	if history.Records[0].Age == "" {
		t.Error("Expected humanized age")
	}

	w = httptest.NewRecorder()
	f.handler.Stats(w, httptest.NewRequest("GET", "/scans/stats", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.ScanStats
	testutil.AssertJSON(t, w, &stats)
	want := models.ScanStats{Total: 3, Success: 1, Failure: 1, DecodeErrors: 1}
	if stats != want {
		t.Errorf("Expected %+v, got %+v", want, stats)
	}
}

func TestHistory_BadLimit(t *testing.T) {
	f := newScanFixture(t)

	for _, limit := range []string{"0", "-1", "abc"} {
		t.Run(limit, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.handler.History(w, httptest.NewRequest("GET", "/scans/history?limit="+limit, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}
