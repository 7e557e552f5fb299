// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"
	"time"

	"github.com/jeranaias/panda-tui/internal/model"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Store is the single owner of chat session state. It is safe for use from
// the UI event loop plus the background mirror goroutine.
type Store struct {
	mu sync.Mutex

	sessions []*model.Session
	activeID string

	// Fetch sequencing (stale-response guard)
	fetchSeq   uint64
	appliedSeq uint64

	// onDirty is invoked (outside the lock) after any local mutation that
	// needs mirroring to the backend.
	onDirty func()
}

// New creates a store holding the first-run welcome session.
func New() *Store {
	welcome := model.NewWelcomeSession()
	return &Store{
		sessions: []*model.Session{welcome},
		activeID: welcome.ID,
	}
}

// SetDirtyFunc registers the callback fired after local mutations.
func (s *Store) SetDirtyFunc(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDirty = fn
}

// =============================================================================
// SNAPSHOT ACCESSORS
// =============================================================================

// Sessions returns a deep-copied snapshot of the session list in display
// order (server/array order, never re-sorted).
func (s *Store) Sessions() []*model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// ActiveID returns the active session identifier.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveSession returns a copy of the active session, or nil if the active
// id does not resolve (possible after a soft-failed select).
func (s *Store) ActiveSession() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.find(s.activeID); sess != nil {
		return sess.Clone()
	}
	return nil
}

// Transcript returns a copy of the active session's message log. A dangling
// active id yields an empty transcript.
func (s *Store) Transcript() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(s.activeID)
	if sess == nil {
		return []model.Message{}
	}
	out := make([]model.Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// BeginFetch reserves a sequence number for a reconcile fetch. Pass it to
// ApplyServerSessions with the fetch result.
func (s *Store) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	return s.fetchSeq
}

// ApplyServerSessions replaces local state with a normalized copy of the
// fetched list. Returns false when the result is stale, i.e. a fetch begun
// later has already been applied.
//
// Normalization: invalid created stamps are repaired to now, an empty list
// synthesizes one default session, and duplicate welcome-sentinel sessions
// are collapsed keeping the earliest. The active pointer survives the
// refresh when its session is still present, otherwise it moves to the
// first entry.
func (s *Store) ApplyServerSessions(seq uint64, fetched []*model.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq

	s.sessions = Normalize(fetched)
	if s.find(s.activeID) == nil {
		s.activeID = s.sessions[0].ID
	}
	return true
}

// Normalize repairs and deduplicates a server-fetched session list. The
// input sessions are copied, never aliased. The result is never empty.
func Normalize(fetched []*model.Session) []*model.Session {
	out := make([]*model.Session, 0, len(fetched))
	seenWelcome := false

	for _, sess := range fetched {
		if sess == nil {
			continue
		}
		c := sess.Clone()
		c.Created = repairCreated(c.Created)
		c.Welcome = c.Title == model.TitleWelcome

		// Keep only the earliest welcome session; later duplicates are
		// dropped from the working set (not deleted remotely).
		if c.Welcome {
			if seenWelcome {
				continue
			}
			seenWelcome = true
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		out = append(out, model.NewDefaultSession())
	}
	return out
}

// repairCreated replaces unparseable or epoch-zero stamps with now. JSON
// decoding failures surface as the zero time; the original backend has also
// been seen returning literal epoch values.
func repairCreated(t time.Time) time.Time {
	if t.IsZero() || t.Unix() == 0 || t.Year() == 1970 {
		return time.Now()
	}
	return t
}

// =============================================================================
// LOCAL OPERATIONS
// =============================================================================

// CreateSession synthesizes a new session, prepends it, and makes it active.
// Returns a copy for optimistic rendering and fire-and-forget persistence.
func (s *Store) CreateSession() *model.Session {
	s.mu.Lock()
	sess := model.NewSession()
	s.sessions = append([]*model.Session{sess}, s.sessions...)
	s.activeID = sess.ID
	snapshot := sess.Clone()
	dirty := s.onDirty
	s.mu.Unlock()

	if dirty != nil {
		dirty()
	}
	return snapshot
}

// SelectSession makes id the active session. Unknown ids are a soft fail:
// the session list is untouched, the transcript reads empty, and ok is
// false so callers can ignore stale clicks.
func (s *Store) SelectSession(id string) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
	return s.find(id) != nil
}

// AppendMessage appends msg to the identified session in place. The first
// message overwrites the placeholder title. Unknown ids are a no-op.
func (s *Store) AppendMessage(id string, msg model.Message) bool {
	s.mu.Lock()
	sess := s.find(id)
	if sess == nil {
		s.mu.Unlock()
		return false
	}
	sess.Append(msg)
	dirty := s.onDirty
	s.mu.Unlock()

	if dirty != nil {
		dirty()
	}
	return true
}

// RemoveSession drops the session locally. Deleting the last remaining
// session is rejected. If the removed session was active, the pointer moves
// to the first remaining entry. The caller follows up with the remote
// delete and an authoritative refetch.
func (s *Store) RemoveSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) <= 1 {
		return false
	}

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.activeID == id {
		s.activeID = s.sessions[0].ID
	}
	return true
}

// Reset returns the store to its first-run state (one welcome session).
// Called on logout and identity change. Fetch sequencing is preserved so a
// late response from the previous identity cannot apply.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	welcome := model.NewWelcomeSession()
	s.sessions = []*model.Session{welcome}
	s.activeID = welcome.ID
	s.appliedSeq = s.fetchSeq
}

// find returns the session with the given id, or nil. Caller holds the lock.
func (s *Store) find(id string) *model.Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}
