package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func dialFeed(t *testing.T, ctx context.Context, hub *progressHub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(progressServer("", hub).Handler)
	t.Cleanup(srv.Close)

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() = %v", err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return c
}

func TestProgressFeed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := newProgressHub()
	c := dialFeed(t, ctx, hub)

	hub.report(25, 100)
	hub.report(60, 100)
	hub.finish(100, nil)

	var last progressEvent
	for !last.Finished {
		var ev progressEvent
		if err := wsjson.Read(ctx, c, &ev); err != nil {
			t.Fatalf("Read() = %v (last event %+v)", err, last)
		}
		if ev.Done < last.Done {
			t.Fatalf("progress went backwards: %+v after %+v", ev, last)
		}
		last = ev
	}
	if last.Done != 100 || last.Total != 100 || last.Percent != 100 || last.Error != "" {
		t.Errorf("final event = %+v, want 100/100 without error", last)
	}
}

func TestProgressFeedLateSubscriber(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := newProgressHub()
	hub.report(3, 4)
	hub.finish(4, context.Canceled)

	c := dialFeed(t, ctx, hub)
	var ev progressEvent
	if err := wsjson.Read(ctx, c, &ev); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if !ev.Finished || ev.Done != 3 || ev.Error == "" {
		t.Errorf("late subscriber got %+v, want the failed final event at 3/4", ev)
	}
}

func TestProgressFeedDrain(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := newProgressHub()
	c := dialFeed(t, ctx, hub)

	drained := make(chan struct{})
	go func() {
		hub.drain(ctx)
		close(drained)
	}()

	// The connected subscriber holds drain open until the feed finishes.
	hub.finish(1, nil)
	var ev progressEvent
	if err := wsjson.Read(ctx, c, &ev); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	select {
	case <-drained:
	case <-ctx.Done():
		t.Fatal("drain did not return after the subscriber left")
	}

	srv := httptest.NewServer(progressServer("", hub).Handler)
	defer srv.Close()
	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err == nil {
		t.Fatal("Dial() after drain succeeded, want refusal")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Dial() after drain: response %v, want 503", resp)
	}
}

func TestOfferKeepsLatest(t *testing.T) {
	ch := make(chan progressEvent, 1)
	offer(ch, progressEvent{Done: 1})
	offer(ch, progressEvent{Done: 2})
	if got := <-ch; got.Done != 2 {
		t.Errorf("queued event Done = %d, want 2", got.Done)
	}
}
