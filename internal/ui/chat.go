// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/panda-tui/internal/model"
	"github.com/jeranaias/panda-tui/internal/ui/styles"
	"github.com/jeranaias/panda-tui/internal/util"
)

const (
	sidebarWidth = 28
	chromeHeight = 5 // header + input border + input + status bar
)

// errorBotText is appended as a bot message when analysis fails.
const errorBotText = "Error connecting to server."

// chatModel is the main screen: session sidebar, transcript, composer.
type chatModel struct {
	theme *styles.Theme
	keys  KeyMap

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	width  int
	height int

	analyzing bool
	confirm   chatConfirm
	status    string
}

type chatConfirm int

const (
	chatConfirmNone chatConfirm = iota
	chatConfirmDelete
	chatConfirmLogout
)

func newChatModel(theme *styles.Theme, keys KeyMap) chatModel {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return chatModel{
		theme:    theme,
		keys:     keys,
		viewport: viewport.New(0, 0),
		input:    input,
		spin:     spin,
	}
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - sidebarWidth - 1
	m.viewport.Height = height - chromeHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.input.Width = width - 4
}

// update handles chat-screen input and analysis results.
func (m *chatModel) update(msg tea.Msg, app *App) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != chatConfirmNone {
			return m.updateConfirm(msg, app)
		}
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit(app)

		case key.Matches(msg, m.keys.NewChat):
			app.store.CreateSession()
			m.refresh(app)
			return nil

		case key.Matches(msg, m.keys.DeleteChat):
			if app.store.Len() <= 1 {
				m.status = "Cannot delete the last chat."
				return nil
			}
			m.confirm = chatConfirmDelete
			return nil

		case key.Matches(msg, m.keys.Up):
			m.moveSelection(app, -1)
			return nil

		case key.Matches(msg, m.keys.Down):
			m.moveSelection(app, 1)
			return nil

		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}

	case SentimentMsg:
		m.analyzing = false
		text := errorBotText
		if msg.Err == nil {
			text = msg.Result.BotText()
		}
		app.store.AppendMessage(msg.SessionID, model.NewBotMessage(text))
		m.refresh(app)
		return nil

	case spinner.TickMsg:
		if !m.analyzing {
			return nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *chatModel) updateConfirm(msg tea.KeyMsg, app *App) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		confirm := m.confirm
		m.confirm = chatConfirmNone

		if confirm == chatConfirmLogout {
			return app.logout()
		}

		id := app.store.ActiveID()
		if !app.store.RemoveSession(id) {
			m.status = "Cannot delete the last chat."
			return nil
		}
		m.refresh(app)
		return app.deleteChatCmd(app.ident.Token, id)

	case key.Matches(msg, m.keys.Cancel):
		m.confirm = chatConfirmNone
	}
	return nil
}

func (m *chatModel) submit(app *App) tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.analyzing {
		return nil
	}
	m.input.SetValue("")
	m.status = ""

	id := app.store.ActiveID()
	app.store.AppendMessage(id, model.NewUserMessage(text))
	m.refresh(app)

	m.analyzing = true
	return tea.Batch(app.analyzeCmd(id, text), m.spin.Tick)
}

func (m *chatModel) moveSelection(app *App, delta int) {
	sessions := app.store.Sessions()
	active := app.store.ActiveID()

	idx := 0
	for i, s := range sessions {
		if s.ID == active {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 || idx >= len(sessions) {
		return
	}
	app.store.SelectSession(sessions[idx].ID)
	m.refresh(app)
}

// refresh rebuilds the transcript from the store and pins the view to the
// latest message.
func (m *chatModel) refresh(app *App) {
	t := m.theme
	var b strings.Builder

	for i, msg := range app.store.Transcript() {
		if i > 0 {
			b.WriteString("\n")
		}
		label := t.UserLabel
		if msg.Sender == model.SenderBot {
			label = t.BotLabel
		}
		b.WriteString(label.Render(msg.Sender.DisplayName()))
		b.WriteString(" ")
		b.WriteString(t.Timestamp.Render(msg.Time))
		b.WriteString("\n")
		b.WriteString(t.Message.Render(msg.Text))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

func (m *chatModel) view(app *App) string {
	t := m.theme

	header := t.Header.Width(m.width).Render(
		fmt.Sprintf("Panda Chat - %s", app.ident.Name))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebarView(app),
		m.viewport.View(),
	)

	input := t.InputContainer.Width(m.width - 2).Render(
		t.InputPrompt.Render("> ") + m.input.View())

	status := m.statusView(app)

	if m.confirm != chatConfirmNone {
		return m.confirmView(app)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

func (m *chatModel) sidebarView(app *App) string {
	t := m.theme
	active := app.store.ActiveID()

	var b strings.Builder
	for i, s := range app.store.Sessions() {
		if i > 0 {
			b.WriteString("\n")
		}
		title := util.TruncateWidth(util.CollapseSpace(s.Title), sidebarWidth-4)
		style := t.SidebarItem
		if s.ID == active {
			style = t.SidebarSelected
		}
		b.WriteString(style.Render(util.PadWidth(title, sidebarWidth-4)))
		b.WriteString("\n")
		b.WriteString(t.SidebarTimestamp.Render(s.Created.Format("Jan 02 15:04")))
	}

	height := m.height - chromeHeight
	if height < 1 {
		height = 1
	}
	return t.Sidebar.Width(sidebarWidth).Height(height).Render(b.String())
}

func (m *chatModel) statusView(app *App) string {
	t := m.theme

	left := t.ShortcutKey.Render("C-n") + t.ShortcutDesc.Render(" new  ") +
		t.ShortcutKey.Render("C-d") + t.ShortcutDesc.Render(" delete  ") +
		t.ShortcutKey.Render("C-l") + t.ShortcutDesc.Render(" logout  ") +
		t.ShortcutKey.Render("C-c") + t.ShortcutDesc.Render(" quit")
	if app.ident.IsAdmin {
		left += t.ShortcutDesc.Render("  ") +
			t.ShortcutKey.Render("C-a") + t.ShortcutDesc.Render(" admin")
	}

	right := ""
	switch {
	case m.analyzing:
		right = m.spin.View() + t.ThinkingText.Render(" analyzing")
	case m.status != "":
		right = t.ErrorText.Render(m.status)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *chatModel) confirmView(app *App) string {
	t := m.theme

	heading := "Log out"
	question := fmt.Sprintf("Log out of %s?", app.ident.Email)
	verb := " log out   "
	if m.confirm == chatConfirmDelete {
		title := "?"
		if s := app.store.ActiveSession(); s != nil {
			title = util.TruncateWidth(s.Title, 40)
		}
		heading = "Delete chat"
		question = fmt.Sprintf("Delete %q and all of its messages?", title)
		verb = " delete   "
	}

	box := t.ModalBox.Render(
		t.ModalTitle.Render(heading) + "\n\n" + question + "\n\n" +
			t.ModalDanger.Render("y") + t.ShortcutDesc.Render(verb) +
			t.ShortcutKey.Render("esc") + t.ShortcutDesc.Render(" cancel"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
