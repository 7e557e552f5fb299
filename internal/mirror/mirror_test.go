// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/panda-tui/internal/model"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved []string
	err   error
	done  chan struct{}
}

func newFakeSaver() *fakeSaver {
	return &fakeSaver{done: make(chan struct{}, 64)}
}

func (f *fakeSaver) SaveChat(ctx context.Context, token string, sess *model.Session) error {
	f.mu.Lock()
	f.saved = append(f.saved, token+":"+sess.ID)
	err := f.err
	f.mu.Unlock()
	f.done <- struct{}{}
	return err
}

func (f *fakeSaver) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...)
}

func waitCalls(t *testing.T, f *fakeSaver, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for save call %d", i+1)
		}
	}
}

func sessions(ids ...string) []*model.Session {
	out := make([]*model.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, &model.Session{ID: id, Title: "t"})
	}
	return out
}

func TestMirror_UploadsOnNotify(t *testing.T) {
	saver := newFakeSaver()
	m := New(saver, 100, nil)
	m.SetToken("tok")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, func() []*model.Session { return sessions("a", "b") })

	m.Notify()
	waitCalls(t, saver, 2)

	got := saver.calls()
	if len(got) != 2 || got[0] != "tok:a" || got[1] != "tok:b" {
		t.Errorf("calls = %v", got)
	}
}

func TestMirror_SkipsEmptyWelcomeSession(t *testing.T) {
	saver := newFakeSaver()
	m := New(saver, 100, nil)
	m.SetToken("tok")

	snap := func() []*model.Session {
		return []*model.Session{
			{ID: "w", Title: model.TitleWelcome, Welcome: true},
			{ID: "real", Title: "Hello"},
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, snap)

	m.Notify()
	waitCalls(t, saver, 1)

	if got := saver.calls(); len(got) != 1 || got[0] != "tok:real" {
		t.Errorf("calls = %v", got)
	}
}

func TestMirror_UploadsWelcomeTitledSessionWithMessages(t *testing.T) {
	saver := newFakeSaver()
	m := New(saver, 100, nil)
	m.SetToken("tok")

	// A session can carry the welcome title AND messages: the flag is
	// re-derived from the title when a fetched list is normalized, so a
	// chat whose first message matched the sentinel comes back flagged.
	// Its appended messages still have to reach the backend.
	welcome := &model.Session{
		ID:      "w",
		Title:   model.TitleWelcome,
		Welcome: true,
		Messages: []model.Message{
			{Sender: model.SenderUser, Text: model.TitleWelcome, Time: "10:00"},
			{Sender: model.SenderUser, Text: "please persist me", Time: "10:01"},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, func() []*model.Session { return []*model.Session{welcome} })

	m.Notify()
	waitCalls(t, saver, 1)

	if got := saver.calls(); len(got) != 1 || got[0] != "tok:w" {
		t.Errorf("calls = %v", got)
	}
}

func TestMirror_PausedWithoutToken(t *testing.T) {
	saver := newFakeSaver()
	m := New(saver, 100, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, func() []*model.Session { return sessions("a") })

	m.Notify()
	time.Sleep(100 * time.Millisecond)
	if got := saver.calls(); len(got) != 0 {
		t.Errorf("uploads without token: %v", got)
	}

	// Installing the token and signaling again resumes uploads.
	m.SetToken("tok")
	m.Notify()
	waitCalls(t, saver, 1)
}

func TestMirror_CoalescesBursts(t *testing.T) {
	saver := newFakeSaver()
	m := New(saver, 1000, nil)
	m.SetToken("tok")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Burst before the loop starts: all signals collapse into one.
	for i := 0; i < 10; i++ {
		m.Notify()
	}
	go m.Run(ctx, func() []*model.Session { return sessions("a") })

	waitCalls(t, saver, 1)
	time.Sleep(100 * time.Millisecond)
	if got := saver.calls(); len(got) != 1 {
		t.Errorf("expected one coalesced sweep, got %d calls", len(got))
	}
}

func TestMirror_SwallowsSaveErrors(t *testing.T) {
	saver := newFakeSaver()
	saver.err = errors.New("boom")
	m := New(saver, 100, nil)
	m.SetToken("tok")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, func() []*model.Session { return sessions("a", "b") })

	m.Notify()
	// Both sessions are attempted even though the first save fails.
	waitCalls(t, saver, 2)
}

func TestMirror_StopsOnCancel(t *testing.T) {
	m := New(newFakeSaver(), 100, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, func() []*model.Session { return nil }) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
