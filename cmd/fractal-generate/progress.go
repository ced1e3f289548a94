package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marben/fractatoe"
)

// progressEvent is the JSON message pushed to progress subscribers.
type progressEvent struct {
	Done     int     `json:"done"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
	Finished bool    `json:"finished"`
	Error    string  `json:"error,omitempty"`
}

// progressHub fans generation progress out to websocket subscribers. Slow
// subscribers only ever see the latest event.
type progressHub struct {
	m    sync.Mutex
	subs map[chan progressEvent]struct{}
	last progressEvent
	seen bool

	// active counts connected subscribers; websocket connections are
	// hijacked and outlive http.Server.Shutdown. It only grows under m
	// while draining is unset.
	active   sync.WaitGroup
	draining bool
}

func newProgressHub() *progressHub {
	return &progressHub{subs: make(map[chan progressEvent]struct{})}
}

// report has the signature of histogram.WithProgress.
func (h *progressHub) report(done, total int) {
	h.publish(progressEvent{Done: done, Total: total, Percent: percent(done, total)})
}

// finish announces the end of generation; err is nil on success.
func (h *progressHub) finish(total int, err error) {
	ev := progressEvent{Done: total, Total: total, Percent: 100, Finished: true}
	if err != nil {
		ev = progressEvent{Done: h.lastDone(), Total: total, Finished: true, Error: err.Error()}
		ev.Percent = percent(ev.Done, total)
	}
	h.publish(ev)
}

func (h *progressHub) lastDone() int {
	h.m.Lock()
	defer h.m.Unlock()
	return h.last.Done
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 100
	}
	return 100 * float64(done) / float64(total)
}

func (h *progressHub) publish(ev progressEvent) {
	h.m.Lock()
	defer h.m.Unlock()

	h.last, h.seen = ev, true
	for ch := range h.subs {
		offer(ch, ev)
	}
}

// offer replaces whatever is still queued in ch with ev.
func offer(ch chan progressEvent, ev progressEvent) {
	select {
	case ch <- ev:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}

// subscribe returns a channel receiving events, starting with the latest one
// already published, and a func to unsubscribe.
func (h *progressHub) subscribe() (<-chan progressEvent, func()) {
	h.m.Lock()
	defer h.m.Unlock()

	ch := make(chan progressEvent, 1)
	if h.seen {
		ch <- h.last
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.m.Lock()
		defer h.m.Unlock()
		delete(h.subs, ch)
	}
}

// enter registers a subscriber about to connect. It fails once drain has
// started; otherwise the caller must call h.active.Done when it leaves.
func (h *progressHub) enter() bool {
	h.m.Lock()
	defer h.m.Unlock()
	if h.draining {
		return false
	}
	h.active.Add(1)
	return true
}

// drain refuses new subscribers and waits until every connected one has
// left or ctx is done.
func (h *progressHub) drain(ctx context.Context) {
	h.m.Lock()
	h.draining = true
	h.m.Unlock()

	done := make(chan struct{})
	go func() {
		h.active.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// progressServer creates the http server exposing hub at /ws.
func progressServer(addr string, hub *progressHub) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(hub))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// websocketHandler streams hub events to one client as JSON text messages
// until generation finishes or the client goes away.
func websocketHandler(hub *progressHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hub.enter() {
			http.Error(w, "progress feed closed", http.StatusServiceUnavailable)
			return
		}
		defer hub.active.Done()

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			fractatoe.Logger().Warn("progress feed: accept", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer c.CloseNow()

		// The feed is one-way; CloseRead handles control frames and
		// cancels ctx once the client disconnects.
		ctx := c.CloseRead(r.Context())

		events, unsubscribe := hub.subscribe()
		defer unsubscribe()

		fractatoe.Logger().Debug("progress feed: subscriber connected", "remote", r.RemoteAddr)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if err := writeEvent(ctx, c, ev); err != nil {
					fractatoe.Logger().Debug("progress feed: write", "remote", r.RemoteAddr, "err", err)
					return
				}
				if ev.Finished {
					c.Close(websocket.StatusNormalClosure, "generation finished")
					return
				}
			}
		}
	}
}

func writeEvent(ctx context.Context, c *websocket.Conn, ev progressEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(ctx, c, ev)
}
