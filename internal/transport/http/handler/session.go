package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type authUsecaser interface {
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
	Me(ctx context.Context, userID string) (*domain.Account, error)
}

type SessionHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewSessionHandler(auth authUsecaser, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		auth:   auth,
		logger: logger.With("component", "session_handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	account, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(c, h.logger, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"usuario": toUsuario(account),
	})
}

// GET /auth/me (behind the Auth middleware)
func (h *SessionHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	account, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		writeDomainError(c, h.logger, "me", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"usuario": toUsuario(account),
	})
}
