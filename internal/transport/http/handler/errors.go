package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errNoPendingRecord    = "No hay un registro pendiente para ese email"
	errNoAccount          = "No existe una cuenta con ese email"
	errAlreadyRegistered  = "El email ya está registrado"
	errCodeExpired        = "El código expiró, solicitá uno nuevo"
	errTooManyAttempts    = "Demasiados intentos, solicitá un código nuevo"
	errTokenInvalid       = "El token de recuperación es inválido o expiró"
	errDispatchFailed     = "No pudimos enviar el email, intentá de nuevo"
	errInvalidCredentials = "Email o contraseña incorrectos"
)

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// writeDomainError maps workflow errors to statuses: 400 validation or
// wrong code, 404 missing record, 409 duplicate, 410 expired, 429
// cooldown or exhausted attempts, 502 failed dispatch. Anything outside
// the taxonomy is logged and reported as a 500.
func writeDomainError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var cooldown *domain.CooldownError
	if errors.As(err, &cooldown) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success":           false,
			"message":           cooldown.Error(),
			"remaining_seconds": int(cooldown.Remaining.Seconds()),
		})
		return
	}

	var invalidCode *domain.InvalidCodeError
	if errors.As(err, &invalidCode) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":            false,
			"message":            invalidCode.Error(),
			"remaining_attempts": invalidCode.Remaining,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, errNoPendingRecord)
	case errors.Is(err, domain.ErrAccountNotFound):
		fail(c, http.StatusNotFound, errNoAccount)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		fail(c, http.StatusConflict, errAlreadyRegistered)
	case errors.Is(err, domain.ErrCodeExpired):
		fail(c, http.StatusGone, errCodeExpired)
	case errors.Is(err, domain.ErrTooManyAttempts):
		fail(c, http.StatusTooManyRequests, errTooManyAttempts)
	case errors.Is(err, domain.ErrTokenInvalid):
		fail(c, http.StatusGone, errTokenInvalid)
	case errors.Is(err, domain.ErrDispatchFailed):
		fail(c, http.StatusBadGateway, errDispatchFailed)
	case errors.Is(err, domain.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, errInvalidCredentials)
	default:
		logger.Error(op, "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
	}
}
