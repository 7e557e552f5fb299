// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"time"

	"github.com/jeranaias/panda-tui/internal/model"
)

// =============================================================================
// AUTH TYPES
// =============================================================================

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success payload of POST /login.
type LoginResponse struct {
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// =============================================================================
// CHAT TYPES
// =============================================================================

// chatsResponse wraps GET /chats.
type chatsResponse struct {
	Chats []*model.Session `json:"chats"`
}

// =============================================================================
// SENTIMENT TYPES
// =============================================================================

// sentimentRequest is the body of POST /analyze-sentiment.
type sentimentRequest struct {
	Message string `json:"message"`
}

// SentimentResult is the analyzer's verdict for one message.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// BotText renders the result as the bot's transcript line. Confidence is
// shown to two decimal places.
func (r *SentimentResult) BotText() string {
	return fmt.Sprintf("Sentiment: %s (Confidence: %.2f)", r.Sentiment, r.Confidence)
}

// =============================================================================
// ADMIN TYPES
// =============================================================================

// AdminUser is one row of GET /admin/users (passwords are stripped
// server-side).
type AdminUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// AdminChat is one row of GET /admin/chats: a session annotated with its
// owner's email.
type AdminChat struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	UserEmail string          `json:"user_email"`
	Created   time.Time       `json:"created"`
	Messages  []model.Message `json:"messages"`
}

// AdminStats is the payload of GET /admin/stats.
type AdminStats struct {
	Users  int `json:"users"`
	Chats  int `json:"chats"`
	Admins int `json:"admins"`
}

type adminUsersResponse struct {
	Users []AdminUser `json:"users"`
}

type adminChatsResponse struct {
	Chats []AdminChat `json:"chats"`
}

// apiErrorResponse is the backend's error envelope.
type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
