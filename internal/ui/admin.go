// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/panda-tui/internal/api"
	"github.com/jeranaias/panda-tui/internal/ui/styles"
	"github.com/jeranaias/panda-tui/internal/util"
)

type adminTab int

const (
	tabUsers adminTab = iota
	tabChats
)

type adminConfirm int

const (
	confirmNone adminConfirm = iota
	confirmUser
	confirmChat
)

// adminModel is the admin console: user and chat tables plus counters.
type adminModel struct {
	theme *styles.Theme
	keys  KeyMap

	users table.Model
	chats table.Model
	stats *api.AdminStats

	// userEmails and chatIDs parallel the visible table rows.
	userEmails []string
	chatIDs    []string

	// allChats is the unfiltered snapshot; filterEmail narrows the chats
	// table to one owner.
	allChats    []api.AdminChat
	filterEmail string

	tab     adminTab
	confirm adminConfirm
	target  string
	status  string
	loading bool

	width  int
	height int
}

func newAdminModel(theme *styles.Theme, keys KeyMap) adminModel {
	users := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 32},
			{Title: "Admin", Width: 6},
		}),
		table.WithFocused(true),
	)
	chats := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 30},
			{Title: "Owner", Width: 28},
			{Title: "Messages", Width: 8},
		}),
	)

	return adminModel{theme: theme, keys: keys, users: users, chats: chats}
}

func (m *adminModel) setSize(width, height int) {
	m.width = width
	m.height = height
	h := height - 7
	if h < 3 {
		h = 3
	}
	m.users.SetHeight(h)
	m.chats.SetHeight(h)
}

func (m *adminModel) setTab(tab adminTab) {
	m.tab = tab
	if tab == tabUsers {
		m.users.Focus()
		m.chats.Blur()
	} else {
		m.chats.Focus()
		m.users.Blur()
	}
}

// load installs a fresh snapshot from the backend.
func (m *adminModel) load(msg AdminDataMsg) {
	m.loading = false
	if msg.Err != nil {
		m.status = "Failed to load admin data: " + adminErrorText(msg.Err)
		return
	}
	m.status = ""
	m.stats = msg.Stats

	userRows := make([]table.Row, 0, len(msg.Users))
	for _, u := range msg.Users {
		admin := ""
		if u.IsAdmin {
			admin = "yes"
		}
		userRows = append(userRows, table.Row{u.Name, u.Email, admin})
	}
	m.users.SetRows(userRows)

	// Row order tracks the source slices; deletes look IDs up by index.
	m.userEmails = make([]string, len(msg.Users))
	for i, u := range msg.Users {
		m.userEmails[i] = u.Email
	}

	m.allChats = msg.Chats
	m.applyChatRows()
}

// applyChatRows rebuilds the chats table honoring the owner filter.
func (m *adminModel) applyChatRows() {
	rows := make([]table.Row, 0, len(m.allChats))
	ids := make([]string, 0, len(m.allChats))
	for _, c := range m.allChats {
		if m.filterEmail != "" && c.UserEmail != m.filterEmail {
			continue
		}
		rows = append(rows, table.Row{
			util.TruncateWidth(c.Title, 30),
			c.UserEmail,
			fmt.Sprintf("%d", len(c.Messages)),
		})
		ids = append(ids, c.ID)
	}
	m.chats.SetRows(rows)
	m.chatIDs = ids
	m.chats.SetCursor(0)
}

func (m *adminModel) update(msg tea.Msg, app *App) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg, app)
		}
		switch {
		case key.Matches(msg, m.keys.NextField):
			if m.tab == tabUsers {
				m.setTab(tabChats)
			} else {
				m.setTab(tabUsers)
			}
			return nil

		case key.Matches(msg, m.keys.DeleteChat):
			return m.beginDelete()

		case key.Matches(msg, m.keys.Submit):
			// Enter on a user narrows the chats table to that owner;
			// enter on the chats tab clears the filter.
			if m.tab == tabUsers {
				if i := m.users.Cursor(); i >= 0 && i < len(m.userEmails) {
					m.filterEmail = m.userEmails[i]
					m.applyChatRows()
					m.setTab(tabChats)
				}
			} else if m.filterEmail != "" {
				m.filterEmail = ""
				m.applyChatRows()
			}
			return nil

		case key.Matches(msg, m.keys.Cancel):
			app.screen = screenChat
			return nil
		}

	case AdminDataMsg:
		m.load(msg)
		return nil

	case AdminUserDeletedMsg:
		if msg.Err != nil {
			m.status = "Delete failed: " + adminErrorText(msg.Err)
			return nil
		}
		if msg.Email == m.filterEmail {
			m.filterEmail = ""
		}
		return app.adminLoadCmd(app.ident.Token)

	case AdminChatDeletedMsg:
		if msg.Err != nil {
			m.status = "Delete failed: " + adminErrorText(msg.Err)
			return nil
		}
		return app.adminLoadCmd(app.ident.Token)
	}

	var cmd tea.Cmd
	if m.tab == tabUsers {
		m.users, cmd = m.users.Update(msg)
	} else {
		m.chats, cmd = m.chats.Update(msg)
	}
	return cmd
}

// adminErrorText prefers the backend's message; transport failures carry
// no envelope and fall back to something renderable.
func adminErrorText(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return "request failed. Is the server running?"
}

func (m *adminModel) beginDelete() tea.Cmd {
	if m.tab == tabUsers {
		i := m.users.Cursor()
		if i < 0 || i >= len(m.userEmails) {
			return nil
		}
		m.confirm = confirmUser
		m.target = m.userEmails[i]
		return nil
	}
	i := m.chats.Cursor()
	if i < 0 || i >= len(m.chatIDs) {
		return nil
	}
	m.confirm = confirmChat
	m.target = m.chatIDs[i]
	return nil
}

func (m *adminModel) updateConfirm(msg tea.KeyMsg, app *App) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		confirm, target := m.confirm, m.target
		m.confirm = confirmNone
		m.target = ""
		if confirm == confirmUser {
			return app.adminDeleteUserCmd(app.ident.Token, target)
		}
		return app.adminDeleteChatCmd(app.ident.Token, target)

	case key.Matches(msg, m.keys.Cancel):
		m.confirm = confirmNone
		m.target = ""
	}
	return nil
}

// =============================================================================
// VIEW
// =============================================================================

func (m *adminModel) view() string {
	t := m.theme

	header := t.Header.Width(m.width).Render("Panda Chat - Admin")

	statsLine := ""
	if m.stats != nil {
		statsLine = t.FormLabel.Render(fmt.Sprintf(
			"Users: %d   Chats: %d   Admins: %d",
			m.stats.Users, m.stats.Chats, m.stats.Admins))
	}

	tabs := m.tabLine()

	var body string
	if m.tab == tabUsers {
		body = m.users.View()
	} else {
		body = m.chats.View()
	}

	var status string
	switch {
	case m.loading:
		status = t.ThinkingText.Render("Loading...")
	case m.status != "":
		status = t.ErrorText.Render(m.status)
	default:
		status = t.ShortcutKey.Render("tab") + t.ShortcutDesc.Render(" switch  ") +
			t.ShortcutKey.Render("enter") + t.ShortcutDesc.Render(" filter  ") +
			t.ShortcutKey.Render("C-d") + t.ShortcutDesc.Render(" delete  ") +
			t.ShortcutKey.Render("esc") + t.ShortcutDesc.Render(" back")
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		header, statsLine, tabs, body, t.StatusBar.Width(m.width).Render(status))

	if m.confirm != confirmNone {
		return m.confirmView()
	}
	return view
}

func (m *adminModel) tabLine() string {
	t := m.theme
	users, chats := "Users", "Chats"
	if m.filterEmail != "" {
		chats = fmt.Sprintf("Chats (%s)", m.filterEmail)
	}
	if m.tab == tabUsers {
		users = t.HeaderTitle.Render(users)
		chats = t.FormHint.Render(chats)
	} else {
		users = t.FormHint.Render(users)
		chats = t.HeaderTitle.Render(chats)
	}
	return strings.Join([]string{" ", users, " | ", chats}, "")
}

func (m *adminModel) confirmView() string {
	t := m.theme
	what := fmt.Sprintf("Delete user %q and all of their chats?",
		util.TruncateRunes(m.target, 48))
	if m.confirm == confirmChat {
		what = "Delete this chat for its owner?"
	}

	box := t.ModalBox.Render(
		t.ModalTitle.Render("Confirm delete") + "\n\n" + what + "\n\n" +
			t.ModalDanger.Render("y") + t.ShortcutDesc.Render(" delete   ") +
			t.ShortcutKey.Render("esc") + t.ShortcutDesc.Render(" cancel"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
