package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type recoveryUsecaser interface {
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, int, error)
	ChangePassword(ctx context.Context, resetToken, newPassword string) (*domain.Account, string, error)
}

type RecoveryHandler struct {
	recovery recoveryUsecaser
	logger   *slog.Logger
}

func NewRecoveryHandler(recovery recoveryUsecaser, logger *slog.Logger) *RecoveryHandler {
	return &RecoveryHandler{
		recovery: recovery,
		logger:   logger.With("component", "recovery_handler"),
	}
}

type recoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyRecoveryRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required,len=6,numeric"`
}

type changePasswordRequest struct {
	ResetToken      string `json:"reset_token"       binding:"required"`
	NewPassword     string `json:"new_password"      binding:"required,min=4,max=10"`
	ConfirmPassword string `json:"confirm_password"  binding:"required,eqfield=NewPassword"`
}

// POST /auth/request-password-recovery
func (h *RecoveryHandler) RequestCode(c *gin.Context) {
	var req recoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.recovery.RequestCode(c.Request.Context(), req.Email); err != nil {
		writeDomainError(c, h.logger, "request password recovery", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Código de recuperación enviado, revisá tu email",
	})
}

// POST /auth/verify-recovery-code
// On a match returns the reset token and its lifetime in seconds.
func (h *RecoveryHandler) VerifyCode(c *gin.Context) {
	var req verifyRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	resetToken, expiresIn, err := h.recovery.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeDomainError(c, h.logger, "verify recovery code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"reset_token":      resetToken,
		"token_expires_in": expiresIn,
	})
}

// POST /auth/change-password
// Consumes the reset token and returns a fresh session.
func (h *RecoveryHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	account, token, err := h.recovery.ChangePassword(c.Request.Context(), req.ResetToken, req.NewPassword)
	if err != nil {
		writeDomainError(c, h.logger, "change password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"usuario": toUsuario(account),
	})
}
