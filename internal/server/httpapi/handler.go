// Package httpapi exposes the REST auth gateway and the WebSocket chat
// endpoint over a gin router.
package httpapi

import (
	"github.com/Lg0ma/MessagesVS/internal/logging"
	"github.com/Lg0ma/MessagesVS/internal/server/relay"
	"github.com/Lg0ma/MessagesVS/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Handler wires the user service and the relay hub into HTTP routes.
type Handler struct {
	users     *services.UserService
	hub       *relay.Hub
	jwtSecret []byte
	logger    logging.Logger
	origins   *originSet
}

func NewHandler(users *services.UserService, hub *relay.Hub, secretKey string, allowedOrigins []string, logger logging.Logger) *Handler {
	return &Handler{
		users:     users,
		hub:       hub,
		jwtSecret: []byte(secretKey),
		logger:    logger.With("module", "httpapi"),
		origins:   newOriginSet(allowedOrigins),
	}
}

// Router builds the gin engine with all application routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/test-protected", h.RequireAuth, h.TestProtected)
	}

	r.GET("/ws", h.ServeWS)

	return r
}
