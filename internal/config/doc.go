// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the client configuration.
//
// Configuration comes from ~/.pandachat/config.toml, with a small set of
// environment overrides on top. Every field has a usable default; a
// missing config file is normal.
package config
