// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the panda-tui application.
//
// It contains rune- and width-aware string truncation (used for session
// titles and sidebar rows) and an atomic file writer used by the identity
// and config stores.
package util
