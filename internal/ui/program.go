// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import tea "github.com/charmbracelet/bubbletea"

// programRef lets goroutines outside the Bubble Tea loop inject messages.
// Set once at startup before the program runs.
var programRef *tea.Program

// SetProgram registers the running program for async sends.
func SetProgram(p *tea.Program) {
	programRef = p
}

// Send delivers a message to the program from any goroutine. A no-op
// before SetProgram, which only happens in tests.
func Send(msg tea.Msg) {
	if programRef != nil {
		programRef.Send(msg)
	}
}
