// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mirror

import (
	"context"
	"io"
	"log"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jeranaias/panda-tui/internal/model"
)

// Saver is the slice of the API client the mirror needs.
type Saver interface {
	SaveChat(ctx context.Context, token string, session *model.Session) error
}

// Mirror uploads session snapshots in the background.
type Mirror struct {
	saver   Saver
	log     *log.Logger
	limiter *rate.Limiter

	mu    sync.Mutex
	token string

	// dirty has capacity 1: any number of Notify calls while a sweep is
	// in flight collapse into one more sweep.
	dirty chan struct{}
}

// New creates a mirror. A nil logger discards upload noise. sweepsPerSec
// bounds how often a full upload sweep may start; zero means 1/sec.
func New(saver Saver, sweepsPerSec float64, logger *log.Logger) *Mirror {
	if sweepsPerSec <= 0 {
		sweepsPerSec = 1
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Mirror{
		saver:   saver,
		log:     logger,
		limiter: rate.NewLimiter(rate.Limit(sweepsPerSec), 1),
		dirty:   make(chan struct{}, 1),
	}
}

// SetToken installs the credential used for uploads. An empty token
// pauses the mirror; dirty signals still accumulate.
func (m *Mirror) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

// Notify marks the local state dirty. Safe from any goroutine; never
// blocks.
func (m *Mirror) Notify() {
	select {
	case m.dirty <- struct{}{}:
	default:
	}
}

// Run sweeps until ctx is canceled. snapshot must return an isolated copy
// of the sessions to upload.
func (m *Mirror) Run(ctx context.Context, snapshot func() []*model.Session) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.dirty:
		}

		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
		m.sweep(ctx, snapshot())
	}
}

func (m *Mirror) sweep(ctx context.Context, sessions []*model.Session) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	if token == "" {
		return
	}

	for _, sess := range sessions {
		// The welcome placeholder exists only locally until it gets a
		// message. Once it holds messages it must persist like any other
		// session: the flag is re-derived from the title on every fetch,
		// so a welcome-titled session with content would otherwise be
		// excluded forever.
		if sess.Welcome && sess.IsEmpty() {
			continue
		}
		if err := m.saver.SaveChat(ctx, token, sess); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.log.Printf("mirror: save %s failed: %v", sess.ID, err)
		}
	}
}
