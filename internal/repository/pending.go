package repository

import (
	"context"
	"time"

	"github.com/elbuensabor/verification-service/internal/domain"
)

type PendingRegistrationRepository interface {
	// Upsert writes the full row, overwriting code, expiry, attempts and
	// created_at if a row for the email already exists. The caller is
	// responsible for having passed the resend-cooldown check.
	Upsert(ctx context.Context, p *domain.PendingRegistration) error
	Find(ctx context.Context, email string) (*domain.PendingRegistration, error)
	// IncrementAttempts bumps the counter atomically and returns the new value.
	IncrementAttempts(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email string) error
	// DeleteExpired removes rows whose code expired before now, returning
	// the number of rows reaped.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
