// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
)

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

// Admin endpoints require a token whose account carries the admin flag; the
// backend answers 403 otherwise, which surfaces as an ErrTypeAuth error.

// AdminUsers lists all accounts.
func (c *Client) AdminUsers(ctx context.Context, token string) ([]AdminUser, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	var out adminUsersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// AdminChats lists every session across all users.
func (c *Client) AdminChats(ctx context.Context, token string) ([]AdminChat, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	var out adminChatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/chats", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// AdminGetStats fetches the user/chat/admin counters.
func (c *Client) AdminGetStats(ctx context.Context, token string) (*AdminStats, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	var out AdminStats
	if err := c.doJSON(ctx, http.MethodGet, "/admin/stats", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminDeleteUser removes an account and all of its sessions.
func (c *Client) AdminDeleteUser(ctx context.Context, token, email string) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.doJSON(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(email), token, nil, nil)
}

// AdminDeleteChat removes one session regardless of owner.
func (c *Client) AdminDeleteChat(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.doJSON(ctx, http.MethodDelete, "/admin/chats/"+url.PathEscape(id), token, nil, nil)
}
