// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/auth"
	"github.com/danielhkuo/scanstation/middleware"
	"github.com/danielhkuo/scanstation/models"
)

type SessionHandler struct {
	client *api.Client
	store  auth.TokenStore
}

func NewSessionHandler(client *api.Client, store auth.TokenStore) *SessionHandler {
	return &SessionHandler{client: client, store: store}
}

// Login handles POST /session
// Logs the operator in against the backend and persists the token
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, http.StatusOK, "operator logged in", h.client.Login)
}

// Register handles POST /session/register
// Creates an operator account on the backend and logs it in
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, http.StatusCreated, "operator registered", h.client.Register)
}

type authFunc func(ctx context.Context, email, password string) (*models.AuthResult, error)

func (h *SessionHandler) authenticate(w http.ResponseWriter, r *http.Request, status int, logMsg string, call authFunc) {
	var req models.Credentials
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	res, err := call(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		backendError(w, "authentication failed", err)
		return
	}

	if err := h.client.Session().Save(h.store); err != nil {
		// The session still works for this run
		slog.Error("failed to persist session", "error", err)
	}

	slog.Info(logMsg, "user_id", res.User.ID)
	middleware.JSONResponse(w, status, models.SessionResponse{
		LoggedIn: true,
		User:     &res.User,
	})
}

// Logout handles DELETE /session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.client.Logout()
	if err := h.client.Session().Save(h.store); err != nil {
		slog.Error("failed to clear stored session", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.client.Session()
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		LoggedIn: s.LoggedIn(),
		User:     s.User(),
	})
}
