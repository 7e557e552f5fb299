// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// The JSON shapes here are the wire format the Panda backend stores and
// returns: a session is {id, title, created, messages} with created as an
// ISO-8601 timestamp, and a message is {sender, text, time} with time as a
// display-formatted HH:MM string fixed at creation.
package model
