package relay

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxEventSize   = 4096
	sendBufferSize = 256
)

type sessionState int

const (
	stateConnecting sessionState = iota
	stateActive
	stateClosed
)

// Session binds one transport connection to one declared chat identity and
// the public topic subscription. Lifecycle: Connecting until the client
// announces a join, Active while subscribed, Closed after leave, transport
// close or protocol error.
type Session struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	addr string

	mu          sync.Mutex
	state       sessionState
	identity    string
	connectedAt time.Time
}

// NewSession wraps an upgraded connection. The session stays in the
// Connecting state until the client announces its identity.
func NewSession(conn *websocket.Conn, hub *Hub, addr string) *Session {
	if conn != nil {
		conn.SetReadLimit(maxEventSize)
	}
	return &Session{
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		hub:         hub,
		addr:        addr,
		state:       stateConnecting,
		connectedAt: time.Now(),
	}
}

// Identity returns the bound display identity, or "" before the join
// announcement.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateClosed
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.state = stateClosed
	s.mu.Unlock()
}

// Start launches the read and write pumps. The hub tracks them so Shutdown
// can wait for teardown.
func (s *Session) Start() {
	s.hub.wg.Add(2)
	go func() {
		defer s.hub.wg.Done()
		s.writePump()
	}()
	go func() {
		defer s.hub.wg.Done()
		s.readPump()
	}()
}

// AnnounceJoin binds the declared identity and admits the session into the
// topic. Repeated announcements and announcements after close are ignored.
// The identity is trusted as declared; it is not cross-checked against the
// authenticated token subject.
func (s *Session) AnnounceJoin(identity string) {
	s.mu.Lock()
	if s.state != stateConnecting || identity == "" {
		s.mu.Unlock()
		return
	}
	s.identity = identity
	s.state = stateActive
	s.mu.Unlock()

	select {
	case s.hub.register <- s:
	case <-s.hub.ctx.Done():
	}
}

// Submit broadcasts client-authored content verbatim under the bound
// identity. A no-op before the join announcement or after close.
func (s *Session) Submit(content string) {
	s.mu.Lock()
	if s.state != stateActive {
		s.mu.Unlock()
		return
	}
	identity := s.identity
	s.mu.Unlock()

	s.hub.Broadcast(Event{Sender: identity, Content: content, Type: EventChat})
}

// AnnounceLeave broadcasts a synthesized leave event and removes the session
// from the topic. The broadcast is queued before the removal, so subscribers
// see the leave before the session disappears.
func (s *Session) AnnounceLeave() {
	s.mu.Lock()
	if s.state != stateActive {
		s.mu.Unlock()
		return
	}
	identity := s.identity
	s.mu.Unlock()

	s.hub.Broadcast(Event{Sender: identity, Content: identity + " left!", Type: EventLeave})

	select {
	case s.hub.unregister <- s:
	case <-s.hub.ctx.Done():
	}
}

// Close tears the session down without a leave broadcast. Closing the
// transport makes the read pump exit, which removes the session from the
// topic.
func (s *Session) Close() {
	s.closeConn()
}

func (s *Session) readPump() {
	defer s.teardown()

	s.setupReadDeadlines()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.logReadError(err)
			return
		}
		s.handleEvent(raw)
	}
}

// handleEvent dispatches one decoded client event. A payload that is not
// valid JSON terminates only this session.
func (s *Session) handleEvent(raw []byte) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		s.hub.logger.Warn(s.hub.ctx, "malformed event", "addr", s.addr, "error", err)
		s.closeConn()
		return
	}

	switch ev.Type {
	case EventJoin:
		s.AnnounceJoin(ev.Sender)
	case EventChat:
		s.Submit(ev.Content)
	case EventLeave:
		s.AnnounceLeave()
	default:
		s.hub.logger.Warn(s.hub.ctx, "unknown event type", "addr", s.addr, "type", string(ev.Type))
	}
}

// teardown removes the session from the topic and closes the transport. No
// leave event is synthesized here: a silent disconnect gives no guarantee of
// a LEAVE broadcast.
func (s *Session) teardown() {
	select {
	case s.hub.unregister <- s:
	case <-s.hub.ctx.Done():
	}
	s.closeConn()
}

func (s *Session) setupReadDeadlines() {
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (s *Session) logReadError(err error) {
	switch {
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		s.hub.logger.Info(s.hub.ctx, "session disconnected", "addr", s.addr)
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		s.hub.logger.Info(s.hub.ctx, "connection closed", "addr", s.addr)
	default:
		s.hub.logger.Warn(s.hub.ctx, "read error", "addr", s.addr, "error", err)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.closeConn()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) closeConn() {
	if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
		s.hub.logger.Debug(s.hub.ctx, "connection close", "addr", s.addr, "error", err)
	}
}

// isExpectedCloseError reports whether an error is routine during teardown.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "websocket: close sent") ||
		strings.Contains(msg, "broken pipe")
}
