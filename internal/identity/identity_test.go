// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewStoreWithDir(t.TempDir())

	want := &Identity{Token: "tok-1", Name: "Panda", Email: "p@example.com", IsAdmin: true}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStoreWithDir(t.TempDir())
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_LoadIncompleteFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStoreWithDir(dir)

	// A file without a token is treated the same as no file.
	if err := os.WriteFile(s.Path(), []byte(`{"name":"Panda"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveRejectsIncomplete(t *testing.T) {
	s := NewStoreWithDir(t.TempDir())
	if err := s.Save(&Identity{Name: "Panda"}); err == nil {
		t.Error("expected error for identity without token")
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStoreWithDir(t.TempDir())

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}

	if err := s.Save(&Identity{Token: "t", Email: "e@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("identity survived Clear: %v", err)
	}
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on windows")
	}

	dir := filepath.Join(t.TempDir(), "sub")
	s := NewStoreWithDir(dir)
	if err := s.Save(&Identity{Token: "t", Email: "e@example.com"}); err != nil {
		t.Fatal(err)
	}

	fi, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0600 {
		t.Errorf("file perm = %o, want 0600", perm)
	}

	di, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := di.Mode().Perm(); perm != 0700 {
		t.Errorf("dir perm = %o, want 0700", perm)
	}
}
