// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TITLE SENTINELS
// =============================================================================

const (
	// TitleWelcome is the sentinel title of the auto-created first-run
	// session. At most one session per user may carry it; duplicates
	// arriving from the server are collapsed on ingestion.
	TitleWelcome = "Welcome Chat"

	// TitleNew is the placeholder title for a freshly created session,
	// overwritten by the first message.
	TitleNew = "New Analysis"

	// TitleDefault is the title synthesized when the server returns an
	// empty session list.
	TitleDefault = "Default Analysis"

	// TitleMaxRunes is the cap on titles derived from a first message.
	// Longer messages keep their first 30 runes and gain an ellipsis.
	TitleMaxRunes = 30
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one saved sentiment-analysis conversation thread.
//
// Welcome is derived once during normalization (title sentinel match) so
// in-process logic never re-compares title strings; it is not part of the
// wire format.
type Session struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Messages []Message `json:"messages"`

	Welcome bool `json:"-"`
}

// NewSession creates an empty session with a fresh unique id and the
// new-session placeholder title.
func NewSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Title:    TitleNew,
		Created:  time.Now(),
		Messages: make([]Message, 0),
	}
}

// NewWelcomeSession creates the first-run welcome session.
func NewWelcomeSession() *Session {
	s := NewSession()
	s.Title = TitleWelcome
	s.Welcome = true
	return s
}

// NewDefaultSession creates the session synthesized when a fetch returns no
// sessions at all.
func NewDefaultSession() *Session {
	s := NewSession()
	s.Title = TitleDefault
	return s
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the session log. The first message overwrites the
// placeholder title with (a truncation of) its text.
func (s *Session) Append(msg Message) {
	if len(s.Messages) == 0 {
		s.Title = TitleFromMessage(msg.Text)
		s.Welcome = false
	}
	s.Messages = append(s.Messages, msg)
}

// IsEmpty returns true if the session has no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// Clone creates a deep copy of the session. Messages are value types, so
// copying the slice is enough.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	return &clone
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// TitleFromMessage derives a session title from its first message: the full
// text when it fits, otherwise the first TitleMaxRunes runes plus "...".
func TitleFromMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxRunes {
		return text
	}
	return string(runes[:TitleMaxRunes]) + "..."
}
