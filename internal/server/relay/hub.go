package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Lg0ma/MessagesVS/internal/logging"
)

// Hub maintains the subscriber set of the single public topic and serializes
// all membership changes and broadcasts through one event loop, which gives
// every subscriber the same total order of events.
type Hub struct {
	sessions   map[*Session]bool
	broadcast  chan Event
	register   chan *Session
	unregister chan *Session

	mu     sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	logger logging.Logger
}

// NewHub creates a hub ready to accept sessions. Run must be started in its
// own goroutine before sessions are admitted.
func NewHub(logger logging.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sessions:   make(map[*Session]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		logger:     logger.With("module", "relay"),
	}
}

// Broadcast queues an event for fan-out to all active sessions.
func (h *Hub) Broadcast(ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.ctx.Done():
	}
}

// Run is the hub's event loop. It handles session admission, removal and
// event fan-out until Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAllSessions()
			return

		case s := <-h.register:
			h.mu.Lock()
			h.sessions[s] = true
			count := len(h.sessions)
			h.mu.Unlock()
			h.logger.Info(h.ctx, "session joined", "identity", s.Identity(), "addr", s.addr, "sessions", count)

			// The join announcement is synthesized here, never authored
			// by the client.
			h.fanOut(Event{Sender: s.Identity(), Content: s.Identity() + " joined!", Type: EventJoin})

		case s := <-h.unregister:
			h.remove(s)

		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s)
	s.markClosed()
	count := len(h.sessions)
	h.mu.Unlock()

	// Closing the send channel stops the write pump. Done outside the
	// lock, matching the order the fan-out path relies on.
	close(s.send)
	h.logger.Info(h.ctx, "session removed", "identity", s.Identity(), "addr", s.addr, "sessions", count)
}

// fanOut delivers one event to every active session. Delivery is best-effort
// and at-most-once: a session with a full buffer or a closed connection is
// dropped from the topic instead of retried.
func (h *Hub) fanOut(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error(h.ctx, "event marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	var failed []*Session
	for _, s := range targets {
		if !h.trySend(s, payload) {
			failed = append(failed, s)
		}
	}
	for _, s := range failed {
		h.logger.Warn(h.ctx, "dropping unresponsive session", "identity", s.Identity(), "addr", s.addr)
		h.remove(s)
	}
}

func (h *Hub) trySend(s *Session, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.sessions[s]; !ok || s.isClosed() {
		return false
	}

	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (h *Hub) closeAllSessions() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.closeConn()
	}
	h.logger.Info(h.ctx, "closed all sessions", "count", len(sessions))
}

// Shutdown stops the event loop, closes every connection and waits for the
// pump goroutines to finish or the timeout to pass.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		h.logger.Warn(context.Background(), "shutdown timeout reached")
		return context.DeadlineExceeded
	}
}
