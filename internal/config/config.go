// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appDirName = ".pandachat"
	configFile = "config.toml"

	// EnvServerURL overrides server_url from the config file.
	EnvServerURL = "PANDA_SERVER_URL"
	// EnvPollInterval overrides poll_interval_seconds from the config file.
	EnvPollInterval = "PANDA_POLL_INTERVAL"
)

// Validation errors.
var (
	ErrEmptyServerURL    = errors.New("server_url must not be empty")
	ErrBadServerURL      = errors.New("server_url must be an http or https URL")
	ErrBadPollInterval   = errors.New("poll_interval_seconds must be positive")
	ErrBadRequestTimeout = errors.New("request_timeout_seconds must be positive")
)

// Config holds everything the client needs to reach a backend.
type Config struct {
	// ServerURL is the base URL of the REST API.
	ServerURL string `toml:"server_url"`

	// WSPath is appended to ServerURL (with the scheme flipped to ws)
	// for the push subscription.
	WSPath string `toml:"ws_path"`

	// PollIntervalSeconds is the background refetch cadence.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`

	// RequestTimeoutSeconds bounds each REST call.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
}

// Default returns the built-in configuration, matching a local backend.
func Default() *Config {
	return &Config{
		ServerURL:             "http://127.0.0.1:5000",
		WSPath:                "/ws/events",
		PollIntervalSeconds:   30,
		RequestTimeoutSeconds: 30,
	}
}

// PollInterval returns the poll cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// WSURL derives the WebSocket endpoint from ServerURL and WSPath.
func (c *Config) WSURL() (string, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server_url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", ErrBadServerURL
	}
	u.Path = c.WSPath
	return u.String(), nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return ErrEmptyServerURL
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBadServerURL
	}
	if c.PollIntervalSeconds <= 0 {
		return ErrBadPollInterval
	}
	if c.RequestTimeoutSeconds <= 0 {
		return ErrBadRequestTimeout
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads ~/.pandachat/config.toml, applies environment overrides, and
// validates the result. A missing file yields the defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return LoadFile(filepath.Join(home, appDirName, configFile))
}

// LoadFile is Load with an explicit path, used by tests and the --config
// flag.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvPollInterval); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PollIntervalSeconds = n
		}
	}
}
