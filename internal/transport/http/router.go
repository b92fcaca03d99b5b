package httptransport

import (
	"log/slog"

	"github.com/elbuensabor/verification-service/internal/transport/http/handler"
	"github.com/elbuensabor/verification-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	verificationHandler *handler.VerificationHandler,
	recoveryHandler *handler.RecoveryHandler,
	sessionHandler *handler.SessionHandler,
	jwtKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	auth.POST("/request-verification-code", verificationHandler.RequestCode)
	auth.POST("/resend-verification-code", verificationHandler.ResendCode)
	auth.POST("/verify-code", verificationHandler.VerifyCode)

	auth.POST("/request-password-recovery", recoveryHandler.RequestCode)
	auth.POST("/verify-recovery-code", recoveryHandler.VerifyCode)
	auth.POST("/change-password", recoveryHandler.ChangePassword)

	auth.POST("/login", sessionHandler.Login)
	auth.GET("/me", middleware.Auth(jwtKey), sessionHandler.Me)

	return r
}
