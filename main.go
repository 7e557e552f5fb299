// panda-tui - A terminal client for the Panda Chat sentiment server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/panda-tui/internal/api"
	"github.com/jeranaias/panda-tui/internal/config"
	"github.com/jeranaias/panda-tui/internal/identity"
	"github.com/jeranaias/panda-tui/internal/mirror"
	"github.com/jeranaias/panda-tui/internal/store"
	"github.com/jeranaias/panda-tui/internal/ui"
	"github.com/jeranaias/panda-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config.toml (default ~/.pandachat/config.toml)")
		serverURL   = flag.String("server", "", "backend base URL (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("panda-tui %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *serverURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, serverURL string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := newLogger()

	idStore, err := identity.NewStore()
	if err != nil {
		return err
	}
	ident, err := idStore.Load()
	if err != nil && !errors.Is(err, identity.ErrNotFound) {
		logger.Printf("ignoring saved identity: %v", err)
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout(),
	})

	st := store.New()
	mir := mirror.New(client, 1, logger)
	st.SetDirtyFunc(mir.Notify)
	if ident.Valid() {
		mir.SetToken(ident.Token)
	}

	app := ui.NewApp(styles.NewTheme(), cfg, client, st, idStore, mir, ident, logger)

	p := tea.NewProgram(app, tea.WithAltScreen())
	ui.SetProgram(p)

	mirrorCtx, stopMirror := context.WithCancel(context.Background())
	defer stopMirror()
	go mir.Run(mirrorCtx, st.Sessions)

	_, err = p.Run()
	return err
}

// newLogger writes diagnostics to ~/.pandachat/panda-tui.log; stdout and
// stderr belong to the TUI.
func newLogger() *log.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	dir := filepath.Join(home, ".pandachat")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return log.New(io.Discard, "", 0)
	}
	f, err := os.OpenFile(filepath.Join(dir, "panda-tui.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "", log.LstdFlags)
}
