// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danielhkuo/scanstation/models"
)

var (
	ErrNoSession    = errors.New("no stored session")
	ErrInvalidToken = errors.New("invalid token format")
)

// Session is the bearer token and user of the logged-in operator.
// Safe for concurrent use; the api client reads it on every request.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewSession() *Session {
	return &Session{}
}

// Token returns the current bearer token, or "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the logged-in user, or nil
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Set replaces the token and user
func (s *Session) Set(token string, user *models.User) error {
	if err := ValidateToken(token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if user != nil {
		u := *user
		s.user = &u
	} else {
		s.user = nil
	}
	return nil
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Load restores the session from a store.
// Returns ErrNoSession when the store holds no token.
func (s *Session) Load(store TokenStore) error {
	state, err := store.Load()
	if err != nil {
		return err
	}
	if state.Token == "" {
		return ErrNoSession
	}
	return s.Set(state.Token, state.User)
}

// Save writes the session to a store. A logged-out session clears it.
func (s *Session) Save(store TokenStore) error {
	s.mu.RLock()
	state := StoredSession{Token: s.token, User: s.user}
	s.mu.RUnlock()

	if state.Token == "" {
		return store.Clear()
	}
	if err := store.Save(state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ValidateToken rejects tokens that cannot be sent in an Authorization header
func ValidateToken(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c <= ' ' || c == 0x7f {
			return ErrInvalidToken
		}
	}
	return nil
}
