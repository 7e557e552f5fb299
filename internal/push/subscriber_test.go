// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
)

// eventServer accepts one WebSocket connection and writes the given events.
func eventServer(t *testing.T, events []Event) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		ctx := r.Context()
		for _, ev := range events {
			data, _ := json.Marshal(ev)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		conn.Read(ctx)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + srv.URL[len("http"):]
}

func TestSubscriber_FiltersByIdentity(t *testing.T) {
	srv := eventServer(t, []Event{
		{Type: EventChatsUpdated, Email: "other@example.com"}, // dropped
		{Type: "ping"},                                       // dropped
		{Type: EventChatsUpdated, Email: "me@example.com"},   // delivered
		{Type: EventChatsUpdated},                            // unscoped: delivered
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notified := make(chan struct{}, 8)
	sub := New(Config{URL: wsURL(srv), Token: "tok", Email: "me@example.com"}, nil)
	go sub.Run(ctx, func() { notified <- struct{}{} })

	for i := 0; i < 2; i++ {
		select {
		case <-notified:
		case <-ctx.Done():
			t.Fatalf("timed out waiting for notification %d", i+1)
		}
	}

	// No further notifications should arrive for the filtered events.
	select {
	case <-notified:
		t.Fatal("unexpected extra notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscriber_SendsAuthorizationHeader(t *testing.T) {
	gotToken := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken <- r.Header.Get("Authorization")
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		conn.Read(r.Context())
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := New(Config{URL: wsURL(srv), Token: "tok-42", Email: "me@example.com"}, nil)
	go sub.Run(ctx, func() {})

	select {
	case tok := <-gotToken:
		require.Equal(t, "tok-42", tok)
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the dial")
	}
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	srv := eventServer(t, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	sub := New(Config{URL: wsURL(srv), Token: "tok", Email: "me@example.com"}, nil)
	go func() { done <- sub.Run(ctx, func() {}) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSubscriber_ReconnectsAfterServerDrop(t *testing.T) {
	conns := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conns <- struct{}{}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		// Drop immediately to force a redial.
		conn.Close(websocket.StatusGoingAway, "bye")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := New(Config{
		URL: wsURL(srv), Token: "tok", Email: "me@example.com",
		MinBackoff: 10 * time.Millisecond, MaxBackoff: 50 * time.Millisecond,
	}, nil)
	go sub.Run(ctx, func() {})

	for i := 0; i < 2; i++ {
		select {
		case <-conns:
		case <-time.After(5 * time.Second):
			t.Fatalf("expected redial %d", i+1)
		}
	}
}
