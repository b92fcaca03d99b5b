package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elbuensabor/verification-service/config"
	"github.com/elbuensabor/verification-service/internal/email"
	"github.com/elbuensabor/verification-service/internal/health"
	"github.com/elbuensabor/verification-service/internal/infrastructure/postgres"
	ctxlog "github.com/elbuensabor/verification-service/internal/log"
	"github.com/elbuensabor/verification-service/internal/metrics"
	"github.com/elbuensabor/verification-service/internal/sweeper"
	httptransport "github.com/elbuensabor/verification-service/internal/transport/http"
	"github.com/elbuensabor/verification-service/internal/transport/http/handler"
	"github.com/elbuensabor/verification-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	pendingRepo := postgres.NewPendingRegistrationRepository(pool)
	resetRepo := postgres.NewPasswordResetRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	policy := usecase.Policy{
		CodeLength:     cfg.CodeLength,
		CodeTTL:        cfg.CodeTTL(),
		MaxAttempts:    cfg.MaxAttempts,
		ResendCooldown: cfg.ResendCooldown(),
		ResetTokenTTL:  cfg.ResetTokenTTL(),
		SessionTTL:     cfg.SessionTTL(),
	}
	jwtKey := []byte(cfg.JWTSecret)

	registrationUsecase := usecase.NewRegistrationUsecase(pendingRepo, accountRepo, sender, jwtKey, policy)
	recoveryUsecase := usecase.NewRecoveryUsecase(accountRepo, resetRepo, sender, jwtKey, policy)
	authUsecase := usecase.NewAuthUsecase(accountRepo, jwtKey, policy)

	verificationHandler := handler.NewVerificationHandler(registrationUsecase, logger)
	recoveryHandler := handler.NewRecoveryHandler(recoveryUsecase, logger)
	sessionHandler := handler.NewSessionHandler(authUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweep, err := sweeper.New(pendingRepo, resetRepo, logger, cfg.SweepCron)
	if err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}
	go sweep.Start(ctx)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, verificationHandler, recoveryHandler, sessionHandler, jwtKey),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
