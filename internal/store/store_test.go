// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/panda-tui/internal/model"
)

func serverSession(id, title string, created time.Time) *model.Session {
	return &model.Session{
		ID:       id,
		Title:    title,
		Created:  created,
		Messages: []model.Message{},
	}
}

// =============================================================================
// NORMALIZATION TESTS
// =============================================================================

func TestApplyServerSessions_EmptyListSynthesizesDefault(t *testing.T) {
	s := New()
	seq := s.BeginFetch()

	if !s.ApplyServerSessions(seq, nil) {
		t.Fatal("apply should succeed")
	}

	sessions := s.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("len = %d, want 1", len(sessions))
	}
	if sessions[0].Title != model.TitleDefault {
		t.Errorf("Title = %q, want %q", sessions[0].Title, model.TitleDefault)
	}
	if s.ActiveID() != sessions[0].ID {
		t.Error("synthesized session should be active")
	}
	if len(s.Transcript()) != 0 {
		t.Error("transcript should be empty")
	}
}

func TestApplyServerSessions_WelcomeDedupKeepsEarliest(t *testing.T) {
	s := New()
	now := time.Now()

	fetched := []*model.Session{
		serverSession("A", model.TitleWelcome, now.Add(-2*time.Hour)),
		serverSession("mid", "Trip planning", now.Add(-time.Hour)),
		serverSession("B", model.TitleWelcome, now),
	}

	s.ApplyServerSessions(s.BeginFetch(), fetched)

	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].ID != "A" {
		t.Errorf("first session = %q, want A (earliest welcome kept, in first position)", sessions[0].ID)
	}
	if !sessions[0].Welcome {
		t.Error("kept welcome session should carry the Welcome flag")
	}
	for _, sess := range sessions {
		if sess.ID == "B" {
			t.Error("later welcome duplicate should be dropped")
		}
	}
}

func TestApplyServerSessions_RepairsCreated(t *testing.T) {
	s := New()
	epoch := time.Unix(0, 0)

	fetched := []*model.Session{
		serverSession("x", "Epoch chat", epoch),
		serverSession("y", "Zero chat", time.Time{}),
	}

	before := time.Now()
	s.ApplyServerSessions(s.BeginFetch(), fetched)

	for _, sess := range s.Sessions() {
		if sess.Created.Before(before) {
			t.Errorf("session %s created %v not repaired to now", sess.ID, sess.Created)
		}
	}
}

func TestApplyServerSessions_ValidCreatedSurvives(t *testing.T) {
	s := New()
	created, _ := time.Parse(time.RFC3339, "2025-03-15T09:00:00Z")

	s.ApplyServerSessions(s.BeginFetch(), []*model.Session{
		serverSession("x", "Kept", created),
	})

	if got := s.Sessions()[0].Created; !got.Equal(created) {
		t.Errorf("Created = %v, want %v (valid stamps must survive normalization)", got, created)
	}
}

func TestApplyServerSessions_PreservesServerOrder(t *testing.T) {
	s := New()
	now := time.Now()

	// Deliberately not sorted by creation time; display order is server
	// order, never re-sorted.
	fetched := []*model.Session{
		serverSession("old", "Older", now.Add(-time.Hour)),
		serverSession("new", "Newer", now),
		serverSession("mid", "Middle", now.Add(-30*time.Minute)),
	}

	s.ApplyServerSessions(s.BeginFetch(), fetched)

	got := s.Sessions()
	for i, want := range []string{"old", "new", "mid"} {
		if got[i].ID != want {
			t.Errorf("position %d = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestApplyServerSessions_ActivePreservedWhenStillPresent(t *testing.T) {
	s := New()
	now := time.Now()

	s.ApplyServerSessions(s.BeginFetch(), []*model.Session{
		serverSession("a", "One", now),
		serverSession("b", "Two", now),
	})
	s.SelectSession("b")

	// Same list refetched: active pointer must survive the refresh.
	s.ApplyServerSessions(s.BeginFetch(), []*model.Session{
		serverSession("a", "One", now),
		serverSession("b", "Two", now),
	})
	if s.ActiveID() != "b" {
		t.Errorf("ActiveID = %q, want b", s.ActiveID())
	}

	// Active session gone from server: pointer moves to the first entry.
	s.ApplyServerSessions(s.BeginFetch(), []*model.Session{
		serverSession("a", "One", now),
	})
	if s.ActiveID() != "a" {
		t.Errorf("ActiveID = %q, want a", s.ActiveID())
	}
}

// =============================================================================
// STALE-FETCH GUARD TESTS
// =============================================================================

func TestApplyServerSessions_StaleResponseDiscarded(t *testing.T) {
	s := New()
	now := time.Now()

	slow := s.BeginFetch()
	fast := s.BeginFetch()

	// The later fetch's response arrives first.
	if !s.ApplyServerSessions(fast, []*model.Session{serverSession("fresh", "Fresh", now)}) {
		t.Fatal("newer fetch should apply")
	}
	// The earlier fetch's response arrives late and must be discarded.
	if s.ApplyServerSessions(slow, []*model.Session{serverSession("stale", "Stale", now)}) {
		t.Fatal("stale fetch should be discarded")
	}

	sessions := s.Sessions()
	if len(sessions) != 1 || sessions[0].ID != "fresh" {
		t.Errorf("sessions = %+v, want only 'fresh'", sessions)
	}
}

func TestReset_InvalidatesInFlightFetch(t *testing.T) {
	s := New()
	seq := s.BeginFetch()
	s.Reset()

	if s.ApplyServerSessions(seq, []*model.Session{serverSession("x", "Old identity", time.Now())}) {
		t.Error("fetch begun before Reset must not apply after it")
	}
	if s.Sessions()[0].Title != model.TitleWelcome {
		t.Error("store should hold the welcome session after Reset")
	}
}

// =============================================================================
// LOCAL OPERATION TESTS
// =============================================================================

func TestCreateSession_PrependsAndActivates(t *testing.T) {
	s := New()
	created := s.CreateSession()

	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].ID != created.ID {
		t.Error("new session should be first")
	}
	if s.ActiveID() != created.ID {
		t.Error("new session should be active")
	}
	if created.Title != model.TitleNew {
		t.Errorf("Title = %q, want %q", created.Title, model.TitleNew)
	}
	if len(s.Transcript()) != 0 {
		t.Error("transcript should be cleared for the new session")
	}
}

func TestSelectSession_MissingIDSoftFails(t *testing.T) {
	s := New()
	before := len(s.Sessions())

	if ok := s.SelectSession("no-such-id"); ok {
		t.Error("SelectSession should report missing id")
	}
	if len(s.Transcript()) != 0 {
		t.Error("transcript should be empty for missing id")
	}
	if len(s.Sessions()) != before {
		t.Error("session list must not change")
	}
}

func TestAppendMessage_FirstMessageSetsOnlyThatTitle(t *testing.T) {
	s := New()
	other := s.CreateSession()
	target := s.CreateSession()

	long := strings.Repeat("x", 50)
	if !s.AppendMessage(target.ID, model.NewUserMessage(long)) {
		t.Fatal("append should succeed")
	}

	for _, sess := range s.Sessions() {
		switch sess.ID {
		case target.ID:
			want := strings.Repeat("x", 30) + "..."
			if sess.Title != want {
				t.Errorf("Title = %q, want %q", sess.Title, want)
			}
			if sess.MessageCount() != 1 {
				t.Errorf("MessageCount = %d, want 1", sess.MessageCount())
			}
		case other.ID:
			if sess.Title != model.TitleNew {
				t.Errorf("other session title touched: %q", sess.Title)
			}
		}
	}
}

func TestAppendMessage_UnknownSessionNoOp(t *testing.T) {
	s := New()
	if s.AppendMessage("ghost", model.NewUserMessage("hi")) {
		t.Error("append to unknown session should be a no-op")
	}
}

func TestAppendMessage_FiresDirtyCallback(t *testing.T) {
	s := New()
	dirty := 0
	s.SetDirtyFunc(func() { dirty++ })

	s.AppendMessage(s.ActiveID(), model.NewUserMessage("hello"))
	if dirty != 1 {
		t.Errorf("dirty callbacks = %d, want 1", dirty)
	}
}

func TestRemoveSession_LastSessionRejected(t *testing.T) {
	s := New()
	id := s.ActiveID()

	if s.RemoveSession(id) {
		t.Error("deleting the last session must be rejected")
	}
	if s.Len() != 1 || s.ActiveID() != id {
		t.Error("list size and active id must be unchanged")
	}
}

func TestRemoveSession_ActiveMovesToFirst(t *testing.T) {
	s := New()
	second := s.CreateSession() // active, first

	if !s.RemoveSession(second.ID) {
		t.Fatal("remove should succeed with two sessions")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
	if s.ActiveID() != s.Sessions()[0].ID {
		t.Error("active pointer should move to the first remaining session")
	}
}

func TestSessions_SnapshotIsolation(t *testing.T) {
	s := New()
	snap := s.Sessions()
	snap[0].Title = "mutated"
	snap[0].Messages = append(snap[0].Messages, model.NewUserMessage("leak"))

	if s.Sessions()[0].Title == "mutated" {
		t.Error("snapshot mutation leaked into the store")
	}
	if len(s.Transcript()) != 0 {
		t.Error("snapshot message append leaked into the store")
	}
}
