// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/scanstation/cliparse"
	"github.com/danielhkuo/scanstation/db"
	"github.com/danielhkuo/scanstation/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3319,
		DatabaseURL:     ":memory:",
		DatabaseType:    db.TypeSQLite,
		ValidateTimeout: 2 * time.Second,
		Source:          cliparse.SourceNone,
		ScanRate:        1000,
	}
}

// Test credentials accepted by FakeBackend
const (
	TestEmail    = "gate@example.com"
	TestPassword = "secret1"
	TestToken    = "test-jwt-token"
)

// FakeBackend imitates the events backend. Tickets listed in Valid pass
// validation once; a second validation of the same ticket is a 409.
type FakeBackend struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]string
	valid     map[models.TicketIdentity]bool
	used      map[models.TicketIdentity]bool
	events    map[int64]models.Event
	nextID    int64
	failAll   bool
	validated int
}

// NewFakeBackend starts a fake backend; it is closed with the test
func NewFakeBackend(t *testing.T, valid ...models.TicketIdentity) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		accounts: map[string]string{TestEmail: TestPassword},
		valid:  make(map[models.TicketIdentity]bool),
		used:   make(map[models.TicketIdentity]bool),
		events: make(map[int64]models.Event),
		nextID: 1,
	}
	for _, id := range valid {
		fb.valid[id] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", fb.login)
	mux.HandleFunc("POST /api/auth/register", fb.register)
	mux.HandleFunc("POST /api/ticket/validate", fb.requireToken(fb.validate))
	mux.HandleFunc("GET /api/event", fb.requireToken(fb.listEvents))
	mux.HandleFunc("POST /api/event", fb.requireToken(fb.createEvent))
	mux.HandleFunc("GET /api/event/{id}", fb.requireToken(fb.getEvent))
	mux.HandleFunc("DELETE /api/event/{id}", fb.requireToken(fb.deleteEvent))

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Server.Close)
	return fb
}

// Validations counts calls to the validate endpoint
func (fb *FakeBackend) Validations() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.validated
}

// FailAll makes every validation answer 500
func (fb *FakeBackend) FailAll(fail bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.failAll = fail
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"message": message, "data": data})
}

func (fb *FakeBackend) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+TestToken {
			writeEnvelope(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		next(w, r)
	}
}

func (fb *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	json.NewDecoder(r.Body).Decode(&creds)

	fb.mu.Lock()
	password, ok := fb.accounts[creds.Email]
	fb.mu.Unlock()

	if !ok || password != creds.Password {
		writeEnvelope(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "Logged in", models.AuthResult{
		Token: TestToken,
		User:  models.User{ID: 1, Email: creds.Email},
	})
}

func (fb *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	json.NewDecoder(r.Body).Decode(&creds)

	fb.mu.Lock()
	defer fb.mu.Unlock()

	if _, exists := fb.accounts[creds.Email]; exists {
		writeEnvelope(w, http.StatusConflict, "Email already registered", nil)
		return
	}
	fb.accounts[creds.Email] = creds.Password
	writeEnvelope(w, http.StatusCreated, "Registered", models.AuthResult{
		Token: TestToken,
		User:  models.User{ID: int64(len(fb.accounts)), Email: creds.Email},
	})
}

func (fb *FakeBackend) validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateTicketRequest
	json.NewDecoder(r.Body).Decode(&req)
	id := models.TicketIdentity{TicketID: req.TicketID, OwnerID: req.OwnerID}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.validated++

	switch {
	case fb.failAll:
		writeEnvelope(w, http.StatusInternalServerError, "Internal error", nil)
	case !fb.valid[id]:
		writeEnvelope(w, http.StatusNotFound, "Ticket not found", nil)
	case fb.used[id]:
		writeEnvelope(w, http.StatusConflict, "Ticket already used", nil)
	default:
		fb.used[id] = true
		writeEnvelope(w, http.StatusOK, "Ticket validated", nil)
	}
}

func (fb *FakeBackend) listEvents(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	events := []models.Event{}
	for i := int64(1); i < fb.nextID; i++ {
		if e, ok := fb.events[i]; ok {
			events = append(events, e)
		}
	}
	writeEnvelope(w, http.StatusOK, "", events)
}

func (fb *FakeBackend) createEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	json.NewDecoder(r.Body).Decode(&req)

	fb.mu.Lock()
	defer fb.mu.Unlock()

	e := models.Event{
		ID:        fb.nextID,
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	fb.events[e.ID] = e
	fb.nextID++
	writeEnvelope(w, http.StatusCreated, "Event created", e)
}

func (fb *FakeBackend) getEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	fb.mu.Lock()
	defer fb.mu.Unlock()

	e, ok := fb.events[id]
	if !ok {
		writeEnvelope(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "", e)
}

func (fb *FakeBackend) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	fb.mu.Lock()
	defer fb.mu.Unlock()

	if _, ok := fb.events[id]; !ok {
		writeEnvelope(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	delete(fb.events, id)
	writeEnvelope(w, http.StatusOK, "Event deleted", nil)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
