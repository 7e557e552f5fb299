// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/panda-tui/internal/api"
	"github.com/jeranaias/panda-tui/internal/ui/styles"
)

// registeredNotice is shown after a successful registration, before the
// user logs in with the new account.
const registeredNotice = "Registration successful! Please log in."

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// Field order on the register form; login skips the name field.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// authModel drives the login and register forms.
type authModel struct {
	theme *styles.Theme
	keys  KeyMap

	mode   authMode
	inputs [fieldCount]textinput.Model
	focus  int
	busy   bool
	status string
	failed bool
}

func newAuthModel(theme *styles.Theme, keys KeyMap) authModel {
	m := authModel{theme: theme, keys: keys}

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	m.inputs[fieldName] = name
	m.inputs[fieldEmail] = email
	m.inputs[fieldPassword] = password

	m.setMode(authLogin)
	return m
}

func (m *authModel) setMode(mode authMode) {
	m.mode = mode
	m.status = ""
	m.failed = false
	if mode == authLogin {
		m.focus = fieldEmail
	} else {
		m.focus = fieldName
	}
	m.applyFocus()
}

func (m *authModel) firstField() int {
	if m.mode == authLogin {
		return fieldEmail
	}
	return fieldName
}

func (m *authModel) applyFocus() {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *authModel) cycleFocus() {
	m.focus++
	if m.focus >= fieldCount {
		m.focus = m.firstField()
	}
	if m.mode == authLogin && m.focus == fieldName {
		m.focus = fieldEmail
	}
	m.applyFocus()
}

// update handles auth-screen input. The returned command, when non-nil,
// is the login or register API call.
func (m *authModel) update(msg tea.Msg, app *App) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextField):
			m.cycleFocus()
			return nil

		case msg.String() == "ctrl+r":
			if m.mode == authLogin {
				m.setMode(authRegister)
			} else {
				m.setMode(authLogin)
			}
			return nil

		case key.Matches(msg, m.keys.Submit):
			return m.submit(app)
		}

	case LoginResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.failed = true
			m.status = loginErrorText(msg.Err)
		}
		return nil

	case RegisterResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.failed = true
			m.status = registerErrorText(msg.Err)
			return nil
		}
		m.setMode(authLogin)
		m.status = registeredNotice
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *authModel) submit(app *App) tea.Cmd {
	if m.busy {
		return nil
	}

	name := strings.TrimSpace(m.inputs[fieldName].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	if email == "" || password == "" || (m.mode == authRegister && name == "") {
		m.failed = true
		m.status = "All fields are required."
		return nil
	}

	m.busy = true
	m.failed = false
	m.status = ""
	if m.mode == authRegister {
		return app.registerCmd(name, email, password)
	}
	return app.loginCmd(email, password)
}

func loginErrorText(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return "Login failed. Is the server running?"
}

func registerErrorText(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return "Registration failed. Is the server running?"
}

// =============================================================================
// VIEW
// =============================================================================

func (m *authModel) view(width int) string {
	t := m.theme
	var b strings.Builder

	title := "Sign in to Panda Chat"
	hint := "enter: sign in | tab: next field | ctrl+r: create account | ctrl+c: quit"
	if m.mode == authRegister {
		title = "Create your Panda Chat account"
		hint = "enter: register | tab: next field | ctrl+r: back to sign in | ctrl+c: quit"
	}

	b.WriteString(t.HeaderTitle.Render(title))
	b.WriteString("\n\n")

	if m.mode == authRegister {
		b.WriteString(t.FormLabel.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.inputs[fieldName].View())
		b.WriteString("\n\n")
	}

	b.WriteString(t.FormLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldEmail].View())
	b.WriteString("\n\n")

	b.WriteString(t.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(t.ThinkingText.Render("Contacting server..."))
	case m.status != "" && m.failed:
		b.WriteString(t.FormError.Render(m.status))
	case m.status != "":
		b.WriteString(t.FormSuccess.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(t.FormHint.Render(hint))

	return t.Transcript.Width(width).Render(b.String())
}
