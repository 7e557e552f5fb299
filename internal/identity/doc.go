// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity persists the authenticated user between runs.
//
// The identity file lives at ~/.pandachat/identity.json with 0600
// permissions. It holds the raw API token plus the profile fields the UI
// displays; it is written after login and removed on logout.
package identity
