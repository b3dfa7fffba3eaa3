package httpapi

import (
	"errors"
	"net/http"

	"github.com/Lg0ma/MessagesVS/internal/common"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The response bodies are fixed strings the UI
// matches on.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		c.String(http.StatusOK, "User Registered successfully")
	case errors.Is(err, common.ErrUsernameTaken):
		c.String(http.StatusBadRequest, "UserName Already Exists")
	case errors.Is(err, common.ErrEmailTaken):
		c.String(http.StatusBadRequest, "Email Already Exists")
	default:
		h.logger.Error(c.Request.Context(), "register failed", "error", err)
		c.String(http.StatusInternalServerError, "registration error")
	}
}
