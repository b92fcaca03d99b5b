package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/elbuensabor/verification-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

// registrationUsecaser is the subset of RegistrationUsecase the handler
// needs. Defined here (point of use) so tests can inject a fake.
type registrationUsecaser interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) error
	ResendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (*domain.Account, string, error)
}

type VerificationHandler struct {
	registration registrationUsecaser
	logger       *slog.Logger
}

func NewVerificationHandler(registration registrationUsecaser, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		registration: registration,
		logger:       logger.With("component", "verification_handler"),
	}
}

// The 4-10 password rule mirrors the legacy platform, see DESIGN.md.
type requestCodeRequest struct {
	Email          string `json:"email"            binding:"required,email"`
	Password       string `json:"password"         binding:"required,min=4,max=10"`
	Nombre         string `json:"nombre"           binding:"required"`
	Apellido       string `json:"apellido"         binding:"required"`
	CodigoArea     string `json:"codigo_area"      binding:"omitempty,numeric"`
	NumeroTelefono string `json:"numero_telefono"  binding:"omitempty,numeric"`
}

type resendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code"  binding:"required,len=6,numeric"`
}

// POST /auth/request-verification-code
func (h *VerificationHandler) RequestCode(c *gin.Context) {
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.registration.RequestCode(c.Request.Context(), usecase.RequestCodeInput{
		Email:          req.Email,
		Password:       req.Password,
		Nombre:         req.Nombre,
		Apellido:       req.Apellido,
		CodigoArea:     req.CodigoArea,
		NumeroTelefono: req.NumeroTelefono,
	})
	if err != nil {
		writeDomainError(c, h.logger, "request verification code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Código enviado, revisá tu email",
	})
}

// POST /auth/resend-verification-code
func (h *VerificationHandler) ResendCode(c *gin.Context) {
	var req resendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.registration.ResendCode(c.Request.Context(), req.Email); err != nil {
		writeDomainError(c, h.logger, "resend verification code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Código reenviado, revisá tu email",
	})
}

// POST /auth/verify-code
// On a match returns the promoted account and its session token.
func (h *VerificationHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	account, token, err := h.registration.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeDomainError(c, h.logger, "verify code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"usuario": toUsuario(account),
	})
}
