// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package push subscribes to the backend's real-time chats-updated channel.
//
// One subscription exists per authenticated identity. Events optionally
// carry the email they are addressed to; events for a different identity
// are ignored. The subscriber only signals that a refetch is due - pulling
// the authoritative session list stays with the reconciliation path.
package push
