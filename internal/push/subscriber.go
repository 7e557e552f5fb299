// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// EventChatsUpdated is the only event type the backend currently emits.
const EventChatsUpdated = "chats_updated"

// Event is one push notification from the backend.
type Event struct {
	Type  string `json:"type"`
	Email string `json:"email,omitempty"`
}

// =============================================================================
// SUBSCRIBER
// =============================================================================

// Config holds the subscription parameters for one identity.
type Config struct {
	// URL is the ws:// or wss:// endpoint.
	URL string

	// Token is sent in the Authorization header on dial.
	Token string

	// Email is the identity this subscription belongs to; events scoped
	// to a different email are dropped.
	Email string

	// MinBackoff/MaxBackoff bound the reconnect delay (defaults 1s/30s).
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Subscriber maintains one WebSocket subscription, redialing with capped
// exponential backoff for as long as its context lives.
type Subscriber struct {
	cfg Config
	log *log.Logger
}

// New creates a subscriber. A nil logger discards connection noise.
func New(cfg Config, logger *log.Logger) *Subscriber {
	if cfg.MinBackoff == 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Subscriber{cfg: cfg, log: logger}
}

// Run blocks until ctx is canceled, invoking notify for every
// chats-updated event addressed to this identity. Connection failures are
// logged and retried; they are never surfaced to the user.
func (s *Subscriber) Run(ctx context.Context, notify func()) error {
	backoff := s.cfg.MinBackoff

	for {
		conn, _, err := websocket.Dial(ctx, s.cfg.URL, &websocket.DialOptions{
			HTTPHeader: http.Header{"Authorization": []string{s.cfg.Token}},
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Printf("push: dial %s failed: %v (retry in %s)", s.cfg.URL, err, backoff)
			if err := s.sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = s.nextBackoff(backoff)
			continue
		}

		backoff = s.cfg.MinBackoff
		err = s.readLoop(ctx, conn, notify)
		conn.Close(websocket.StatusNormalClosure, "")
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.log.Printf("push: connection lost: %v (retry in %s)", err, backoff)
		if err := s.sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = s.nextBackoff(backoff)
	}
}

// readLoop consumes events until the connection breaks or ctx ends.
func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn, notify func()) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			s.log.Printf("push: invalid event: %v", err)
			continue
		}
		if ev.Type != EventChatsUpdated {
			continue
		}
		// Scoped events for another identity are not ours.
		if ev.Email != "" && ev.Email != s.cfg.Email {
			continue
		}
		notify()
	}
}

func (s *Subscriber) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Subscriber) nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > s.cfg.MaxBackoff {
		next = s.cfg.MaxBackoff
	}
	return next
}
