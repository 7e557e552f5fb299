// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND CONSTRUCTORS
// =============================================================================

// Commands run off the update loop; each wraps one API call in a fresh
// timeout context and reports back as a message.

func (a *App) apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.RequestTimeout())
}

func (a *App) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		resp, err := a.client.Login(ctx, email, password)
		return LoginResultMsg{Resp: resp, Err: err}
	}
}

func (a *App) registerCmd(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		return RegisterResultMsg{Err: a.client.Register(ctx, name, email, password)}
	}
}

// logoutCmd tells the backend; local state is already cleared by the time
// this runs, so the result is ignored.
func (a *App) logoutCmd(token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		a.client.Logout(ctx, token)
		return nil
	}
}

// fetchChatsCmd starts a fetch against the sequence counter so a late
// response cannot clobber a newer one.
func (a *App) fetchChatsCmd(token string) tea.Cmd {
	seq := a.store.BeginFetch()
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		sessions, err := a.client.ListChats(ctx, token)
		return ChatsFetchedMsg{Seq: seq, Sessions: sessions, Err: err}
	}
}

func (a *App) analyzeCmd(sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		res, err := a.client.AnalyzeSentiment(ctx, text)
		return SentimentMsg{SessionID: sessionID, Result: res, Err: err}
	}
}

func (a *App) deleteChatCmd(token, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		return ChatDeletedMsg{ID: id, Err: a.client.DeleteChat(ctx, token, id)}
	}
}

func (a *App) pollTickCmd() tea.Cmd {
	gen := a.sessionGen
	return tea.Tick(a.cfg.PollInterval(), func(time.Time) tea.Msg {
		return PollTickMsg{Gen: gen}
	})
}

// =============================================================================
// ADMIN COMMANDS
// =============================================================================

func (a *App) adminLoadCmd(token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()

		users, err := a.client.AdminUsers(ctx, token)
		if err != nil {
			return AdminDataMsg{Err: err}
		}
		chats, err := a.client.AdminChats(ctx, token)
		if err != nil {
			return AdminDataMsg{Err: err}
		}
		stats, err := a.client.AdminGetStats(ctx, token)
		if err != nil {
			return AdminDataMsg{Err: err}
		}
		return AdminDataMsg{Users: users, Chats: chats, Stats: stats}
	}
}

func (a *App) adminDeleteUserCmd(token, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		return AdminUserDeletedMsg{Email: email, Err: a.client.AdminDeleteUser(ctx, token, email)}
	}
}

func (a *App) adminDeleteChatCmd(token, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.apiCtx()
		defer cancel()
		return AdminChatDeletedMsg{ID: id, Err: a.client.AdminDeleteChat(ctx, token, id)}
	}
}
