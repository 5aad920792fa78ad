// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/danielhkuo/scanstation/models"
)

// StoredSession is the persisted form of a Session
type StoredSession struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// TokenStore persists a session between runs
type TokenStore interface {
	Load() (StoredSession, error)
	Save(StoredSession) error
	Clear() error
}

// FileStore keeps the session as JSON in a single file (mode 0600).
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns an empty StoredSession when the file does not exist
func (f *FileStore) Load() (StoredSession, error) {
	var state StoredSession

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("failed to read token file: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return StoredSession{}, fmt.Errorf("failed to parse token file: %w", err)
	}
	return state, nil
}

func (f *FileStore) Save(state StoredSession) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token dir: %w", err)
		}
	}

	// Write then rename so a crash never leaves a truncated file
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// MemoryStore is a TokenStore for tests and ephemeral stations
type MemoryStore struct {
	mu    sync.Mutex
	state StoredSession
}

func (m *MemoryStore) Load() (StoredSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryStore) Save(state StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StoredSession{}
	return nil
}
