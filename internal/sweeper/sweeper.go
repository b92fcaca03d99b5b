// Package sweeper periodically removes expired verification rows. The
// workflow itself reaps lazily on access; the sweep keeps the tables
// from accumulating rows for emails that never come back.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elbuensabor/verification-service/internal/metrics"
	"github.com/elbuensabor/verification-service/internal/repository"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	pending  repository.PendingRegistrationRepository
	resets   repository.PasswordResetRepository
	logger   *slog.Logger
	schedule cron.Schedule
}

// New parses cronExpr (standard 5-field or a descriptor like
// "@every 5m") and returns a sweeper that fires on that schedule.
func New(
	pending repository.PendingRegistrationRepository,
	resets repository.PasswordResetRepository,
	logger *slog.Logger,
	cronExpr string,
) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", cronExpr, err)
	}
	return &Sweeper{
		pending:  pending,
		resets:   resets,
		logger:   logger.With("component", "sweeper"),
		schedule: schedule,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	reaped, err := s.pending.DeleteExpired(ctx, start)
	if err != nil {
		s.logger.Error("sweep pending registrations", "error", err)
	} else if reaped > 0 {
		metrics.SweeperReapedTotal.WithLabelValues("pending_registrations").Add(float64(reaped))
		s.logger.Info("reaped expired pending registrations", "count", reaped)
	}

	reaped, err = s.resets.DeleteExpired(ctx, start)
	if err != nil {
		s.logger.Error("sweep reset requests", "error", err)
	} else if reaped > 0 {
		metrics.SweeperReapedTotal.WithLabelValues("password_reset_requests").Add(float64(reaped))
		s.logger.Info("reaped expired reset requests", "count", reaped)
	}

	metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
}
