// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/middleware"
	"github.com/danielhkuo/scanstation/models"
)

type EventHandler struct {
	client *api.Client
}

func NewEventHandler(client *api.Client) *EventHandler {
	return &EventHandler{client: client}
}

// List handles GET /events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.client.ListEvents(r.Context())
	if err != nil {
		backendError(w, "failed to list events", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, events)
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.client.GetEvent(r.Context(), id)
	if err != nil {
		backendError(w, "failed to get event", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, event)
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := eventRequest(w, r)
	if !ok {
		return
	}

	event, err := h.client.CreateEvent(r.Context(), req)
	if err != nil {
		backendError(w, "failed to create event", err)
		return
	}

	slog.Info("event created", "event_id", event.ID, "name", event.Name)
	middleware.JSONResponse(w, http.StatusCreated, event)
}

// Update handles PUT /events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	req, ok := eventRequest(w, r)
	if !ok {
		return
	}

	event, err := h.client.UpdateEvent(r.Context(), id, req)
	if err != nil {
		backendError(w, "failed to update event", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.client.DeleteEvent(r.Context(), id); err != nil {
		backendError(w, "failed to delete event", err)
		return
	}

	slog.Info("event deleted", "event_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id must be a positive integer")
		return 0, false
	}
	return id, true
}

func eventRequest(w http.ResponseWriter, r *http.Request) (models.EventRequest, bool) {
	var req models.EventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}
	if strings.TrimSpace(req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return req, false
	}
	return req, true
}

// backendError passes backend 4xx responses through and maps anything
// else to 502
func backendError(w http.ResponseWriter, msg string, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Rejected() {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.Status)
		}
		middleware.ErrorResponse(w, apiErr.Status, message)
		return
	}

	slog.Error(msg, "error", err)
	middleware.ErrorResponse(w, http.StatusBadGateway, "Events backend unavailable")
}
