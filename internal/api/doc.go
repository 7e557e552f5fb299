// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Panda sentiment backend.
//
// It covers the full REST surface the TUI consumes: register/login/logout,
// the per-user chats collection, the sentiment analyzer, and the admin
// endpoints. Authenticated calls carry the backend-issued token in the
// Authorization header. Errors are categorized so callers can distinguish
// transport failures from application errors carrying a server message.
package api
