// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the Bubble Tea front end.
//
// The root App model owns three screens: the auth forms, the chat view,
// and the admin console. All backend traffic happens inside tea.Cmd
// functions; results come back as messages. Background goroutines (the
// push subscriber, the mirror) reach the program through SetProgram.
package ui
