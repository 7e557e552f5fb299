// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/panda-tui/internal/api"
	"github.com/jeranaias/panda-tui/internal/config"
	"github.com/jeranaias/panda-tui/internal/identity"
	"github.com/jeranaias/panda-tui/internal/mirror"
	"github.com/jeranaias/panda-tui/internal/push"
	"github.com/jeranaias/panda-tui/internal/store"
	"github.com/jeranaias/panda-tui/internal/ui/styles"
)

type screen int

const (
	screenAuth screen = iota
	screenChat
	screenAdmin
)

// App is the root Bubble Tea model.
type App struct {
	theme   *styles.Theme
	cfg     *config.Config
	client  *api.Client
	store   *store.Store
	idStore *identity.Store
	mirror  *mirror.Mirror
	log     *log.Logger
	keys    KeyMap

	ident *identity.Identity

	screen screen
	auth   authModel
	chat   chatModel
	admin  adminModel

	width  int
	height int

	// pushCancel tears down the subscription for the current identity.
	pushCancel context.CancelFunc

	// sessionGen increments on every login and logout. Poll ticks carry
	// the generation they were armed under; a stale tick is dropped, not
	// re-armed, so one chain exists per login session.
	sessionGen uint64
}

// NewApp wires the root model. ident may be nil (no saved login).
func NewApp(
	theme *styles.Theme,
	cfg *config.Config,
	client *api.Client,
	st *store.Store,
	idStore *identity.Store,
	mir *mirror.Mirror,
	ident *identity.Identity,
	logger *log.Logger,
) *App {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	keys := DefaultKeyMap()

	a := &App{
		theme:   theme,
		cfg:     cfg,
		client:  client,
		store:   st,
		idStore: idStore,
		mirror:  mir,
		log:     logger,
		keys:    keys,
		ident:   ident,
		screen:  screenAuth,
		auth:    newAuthModel(theme, keys),
		chat:    newChatModel(theme, keys),
		admin:   newAdminModel(theme, keys),
	}
	if ident.Valid() {
		a.screen = screenChat
	}
	return a
}

// Init starts the session machinery when a saved identity was restored.
func (a *App) Init() tea.Cmd {
	if !a.ident.Valid() {
		return nil
	}
	return a.startSession()
}

// startSession begins syncing for the current identity: one immediate
// fetch, the poll ticker, and the push subscription.
func (a *App) startSession() tea.Cmd {
	a.mirror.SetToken(a.ident.Token)
	a.startPush()
	a.chat.refresh(a)
	return tea.Batch(
		a.fetchChatsCmd(a.ident.Token),
		a.pollTickCmd(),
	)
}

func (a *App) startPush() {
	a.stopPush()

	wsURL, err := a.cfg.WSURL()
	if err != nil {
		a.log.Printf("push disabled: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.pushCancel = cancel

	sub := push.New(push.Config{
		URL:   wsURL,
		Token: a.ident.Token,
		Email: a.ident.Email,
	}, a.log)
	go sub.Run(ctx, func() { Send(ChatsUpdatedMsg{}) })
}

func (a *App) stopPush() {
	if a.pushCancel != nil {
		a.pushCancel()
		a.pushCancel = nil
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.chat.setSize(msg.Width, msg.Height)
		a.admin.setSize(msg.Width, msg.Height)
		a.chat.refresh(a)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.stopPush()
			return a, tea.Quit
		}

	case LoginResultMsg:
		if msg.Err == nil {
			return a, a.loginSucceeded(msg.Resp)
		}

	case ChatsUpdatedMsg:
		if !a.ident.Valid() {
			return a, nil
		}
		return a, a.fetchChatsCmd(a.ident.Token)

	case PollTickMsg:
		if !a.ident.Valid() || msg.Gen != a.sessionGen {
			return a, nil
		}
		return a, tea.Batch(a.fetchChatsCmd(a.ident.Token), a.pollTickCmd())

	case ChatsFetchedMsg:
		if msg.Err != nil {
			a.log.Printf("fetch failed: %v", msg.Err)
			return a, nil
		}
		if a.ident.Valid() && a.store.ApplyServerSessions(msg.Seq, msg.Sessions) {
			a.chat.refresh(a)
		}
		return a, nil

	case SentimentMsg:
		// Results land in the store even if the user moved screens.
		return a, a.chat.update(msg, a)

	case ChatDeletedMsg:
		if msg.Err != nil {
			a.log.Printf("delete %s failed: %v", msg.ID, msg.Err)
		}
		if !a.ident.Valid() {
			return a, nil
		}
		// Refetch either way so local and server agree.
		return a, a.fetchChatsCmd(a.ident.Token)
	}

	return a, a.routeToScreen(msg)
}

func (a *App) routeToScreen(msg tea.Msg) tea.Cmd {
	switch a.screen {
	case screenAuth:
		return a.auth.update(msg, a)

	case screenAdmin:
		return a.admin.update(msg, a)

	default:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && a.chat.confirm == chatConfirmNone {
			switch {
			case key.Matches(keyMsg, a.keys.Logout):
				a.chat.confirm = chatConfirmLogout
				return nil
			case key.Matches(keyMsg, a.keys.Admin):
				if a.ident.Valid() && a.ident.IsAdmin {
					a.screen = screenAdmin
					a.admin.setTab(tabUsers)
					a.admin.loading = true
					return a.adminLoadCmd(a.ident.Token)
				}
				return nil
			}
		}
		return a.chat.update(msg, a)
	}
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

func (a *App) loginSucceeded(resp *api.LoginResponse) tea.Cmd {
	a.ident = &identity.Identity{
		Token:   resp.Token,
		Name:    resp.Name,
		Email:   resp.Email,
		IsAdmin: resp.IsAdmin,
	}
	if err := a.idStore.Save(a.ident); err != nil {
		a.log.Printf("failed to save identity: %v", err)
	}

	a.sessionGen++
	a.store.Reset()
	a.screen = screenChat
	a.auth = newAuthModel(a.theme, a.keys)
	a.chat = newChatModel(a.theme, a.keys)
	a.chat.setSize(a.width, a.height)
	return a.startSession()
}

func (a *App) logout() tea.Cmd {
	token := a.ident.Token

	a.sessionGen++
	a.stopPush()
	a.mirror.SetToken("")
	if err := a.idStore.Clear(); err != nil {
		a.log.Printf("failed to clear identity: %v", err)
	}
	a.store.Reset()
	a.ident = nil
	a.screen = screenAuth
	a.auth = newAuthModel(a.theme, a.keys)
	a.chat = newChatModel(a.theme, a.keys)
	a.chat.setSize(a.width, a.height)

	return a.logoutCmd(token)
}

// =============================================================================
// VIEW
// =============================================================================

func (a *App) View() string {
	switch a.screen {
	case screenAuth:
		return a.auth.view(a.width)
	case screenAdmin:
		return a.admin.view()
	default:
		return a.chat.view(a)
	}
}
