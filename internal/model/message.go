// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message. It is a closed enumeration:
// the backend only ever stores "user" and "bot".
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Valid reports whether the sender is one of the known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Panda"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry. Time is a display string generated
// once at creation and never recomputed, matching what the backend stores.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// NewUserMessage creates a user message stamped with the current local time.
func NewUserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text, Time: clockTime()}
}

// NewBotMessage creates a bot message stamped with the current local time.
func NewBotMessage(text string) Message {
	return Message{Sender: SenderBot, Text: text, Time: clockTime()}
}

// clockTime formats the current local time as HH:MM for display.
func clockTime() string {
	return time.Now().Format("15:04")
}
