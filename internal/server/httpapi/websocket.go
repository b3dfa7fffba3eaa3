package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Lg0ma/MessagesVS/internal/server/relay"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// originSet holds the normalized origins allowed to open WebSocket
// connections. Requests without an Origin header (non-browser clients) are
// accepted; "*" in the configuration allows every origin.
type originSet struct {
	allowed  map[string]struct{}
	allowAll bool
}

func newOriginSet(origins []string) *originSet {
	s := &originSet{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			s.allowAll = true
			continue
		}
		if normalized, ok := normalizeOrigin(trimmed); ok {
			s.allowed[normalized] = struct{}{}
		}
	}
	return s
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

func (s *originSet) check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.allowAll {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, exists := s.allowed[normalized]
	return exists
}

// ServeWS upgrades the request and hands the connection to the relay as a
// new session in the Connecting state. The session becomes active once the
// client announces its identity with a JOIN event.
func (h *Handler) ServeWS(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if h.origins.check(r) {
				return true
			}
			h.logger.Warn(r.Context(), "blocked websocket origin", "origin", r.Header.Get("Origin"))
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	relay.NewSession(conn, h.hub, c.Request.RemoteAddr).Start()
}
