// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/jeranaias/panda-tui/internal/api"
	"github.com/jeranaias/panda-tui/internal/model"
)

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// LoginResultMsg carries the outcome of a login attempt.
type LoginResultMsg struct {
	Resp *api.LoginResponse
	Err  error
}

// RegisterResultMsg carries the outcome of a registration attempt.
type RegisterResultMsg struct {
	Err error
}

// =============================================================================
// SYNC MESSAGES
// =============================================================================

// ChatsUpdatedMsg signals that the server-side session list changed and a
// refetch is due. Sent by the push subscriber goroutine.
type ChatsUpdatedMsg struct{}

// PollTickMsg fires on the background refetch cadence. Gen identifies the
// login session that armed the tick; ticks from a previous identity are
// dropped instead of re-armed, which is what tears the old chain down.
type PollTickMsg struct {
	Gen uint64
}

// ChatsFetchedMsg carries one fetched session list, tagged with the
// sequence number handed out when the fetch started.
type ChatsFetchedMsg struct {
	Seq      uint64
	Sessions []*model.Session
	Err      error
}

// ChatDeletedMsg reports a server-side session delete.
type ChatDeletedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// SentimentMsg carries one analysis result, addressed to the session the
// user was in when they sent the message.
type SentimentMsg struct {
	SessionID string
	Result    *api.SentimentResult
	Err       error
}

// =============================================================================
// ADMIN MESSAGES
// =============================================================================

// AdminDataMsg carries one full refresh of the admin console.
type AdminDataMsg struct {
	Users []api.AdminUser
	Chats []api.AdminChat
	Stats *api.AdminStats
	Err   error
}

// AdminUserDeletedMsg reports an account removal.
type AdminUserDeletedMsg struct {
	Email string
	Err   error
}

// AdminChatDeletedMsg reports a cross-user session removal.
type AdminChatDeletedMsg struct {
	ID  string
	Err error
}
