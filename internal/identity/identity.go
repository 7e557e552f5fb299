// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/panda-tui/internal/util"
)

const (
	appDirName   = ".pandachat"
	identityFile = "identity.json"
)

// ErrNotFound is returned by Load when no identity has been saved.
var ErrNotFound = errors.New("no saved identity")

// Identity is one authenticated account as the backend reported it at
// login time.
type Identity struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Valid reports whether the identity carries enough to authenticate.
func (id *Identity) Valid() bool {
	return id != nil && id.Token != "" && id.Email != ""
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the identity file.
type Store struct {
	path string
}

// NewStore uses the default location under the user's home directory.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewStoreWithDir(filepath.Join(home, appDirName)), nil
}

// NewStoreWithDir uses a custom directory. Tests use this to avoid
// touching the real home directory.
func NewStoreWithDir(dir string) *Store {
	return &Store{path: filepath.Join(dir, identityFile)}
}

// Path returns the identity file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved identity. Returns ErrNotFound when the file does
// not exist.
func (s *Store) Load() (*Identity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}
	if !id.Valid() {
		return nil, ErrNotFound
	}
	return &id, nil
}

// Save writes the identity atomically. The file is 0600 and the parent
// directory 0700: the token inside is a bearer credential.
func (s *Store) Save(id *Identity) error {
	if !id.Valid() {
		return errors.New("refusing to save incomplete identity")
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	return util.AtomicWriteFileWithDir(s.path, data, 0600, 0700)
}

// Clear removes the identity file. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove identity file: %w", err)
	}
	return nil
}
