package httpapi

import (
	"errors"
	"net/http"

	"github.com/Lg0ma/MessagesVS/internal/common"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Login verifies the credentials and returns a session token. The two
// failure messages are distinct on purpose and must not change.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, loginResponse{Token: token, Email: user.Email, Username: user.Username})
	case errors.Is(err, common.ErrUnknownEmail):
		c.String(http.StatusUnauthorized, "Invalid email")
	case errors.Is(err, common.ErrBadCredential):
		c.String(http.StatusUnauthorized, "Invalid email or password")
	default:
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.String(http.StatusInternalServerError, "login error")
	}
}
