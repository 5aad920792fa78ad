// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/scanstation/models"
)

func TestSession_SetAndClear(t *testing.T) {
	s := NewSession()
	if s.LoggedIn() {
		t.Fatal("Expected new session to be logged out")
	}

	user := &models.User{ID: 7, Email: "gate@example.com"}
	if err := s.Set("abc.def.ghi", user); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if s.Token() != "abc.def.ghi" {
		t.Errorf("Expected token 'abc.def.ghi', got '%s'", s.Token())
	}

	// User returns a copy
	got := s.User()
	got.Email = "changed@example.com"
	if s.User().Email != "gate@example.com" {
		t.Error("Expected User() to return a copy")
	}

	s.Clear()
	if s.LoggedIn() || s.User() != nil {
		t.Error("Expected session to be cleared")
	}
}

func TestValidateToken(t *testing.T) {
	testCases := []struct {
		name  string
		token string
		valid bool
	}{
		{"JWT", "eyJhbGciOi.eyJzdWIi.sig", true},
		{"Empty", "", false},
		{"Space", "abc def", false},
		{"Newline", "abc\n", false},
		{"Tab", "abc\tdef", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateToken(tc.token)
			if tc.valid && err != nil {
				t.Errorf("Expected token to be valid, got %v", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	s := NewSession()
	if err := s.Set("token-1", &models.User{ID: 1, Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(store); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected token file to exist: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}

	restored := NewSession()
	if err := restored.Load(store); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if restored.Token() != "token-1" {
		t.Errorf("Expected token 'token-1', got '%s'", restored.Token())
	}
	if restored.User() == nil || restored.User().ID != 1 {
		t.Errorf("Expected user 1, got %+v", restored.User())
	}

	// Saving a logged-out session removes the file
	restored.Clear()
	if err := restored.Save(store); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected token file to be removed")
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	err := NewSession().Load(store)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := NewSession().Load(NewFileStore(path))
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := &MemoryStore{}
	s := NewSession()
	if err := s.Set("mem", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(store); err != nil {
		t.Fatal(err)
	}

	restored := NewSession()
	if err := restored.Load(store); err != nil {
		t.Fatal(err)
	}
	if restored.Token() != "mem" {
		t.Errorf("Expected token 'mem', got '%s'", restored.Token())
	}
}
