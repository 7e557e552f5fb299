// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the client-side chat session state: the ordered session
// list, the active-session pointer, and the transcript derived from it.
//
// All mutation is funneled through the Store's operations; callers only ever
// see deep-copied snapshots. Server-fetched lists replace local state
// (last-fetch-wins) after normalization: creation timestamps are repaired,
// an empty list synthesizes one default session, and duplicate welcome
// sessions are collapsed to the earliest.
//
// Fetches are sequence-tagged. BeginFetch hands out a monotonic number that
// must accompany the eventual ApplyServerSessions call; responses that
// arrive after a newer fetch has already been applied are discarded, so a
// slow early response can never overwrite fresher state.
package store
