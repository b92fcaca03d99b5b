package repository

import (
	"context"
	"time"

	"github.com/elbuensabor/verification-service/internal/domain"
)

type PasswordResetRepository interface {
	// Upsert writes the full row keyed by user_id. Also used to restore a
	// previous row after a failed notification dispatch.
	Upsert(ctx context.Context, r *domain.PasswordResetRequest) error
	FindByUserID(ctx context.Context, userID string) (*domain.PasswordResetRequest, error)
	FindByToken(ctx context.Context, resetToken string) (*domain.PasswordResetRequest, error)
	IncrementAttempts(ctx context.Context, userID string) (int, error)
	// MarkVerified flips verified to true and attaches the reset token.
	// Only rows not yet verified transition; a second call for the same
	// row reports domain.ErrNotFound.
	MarkVerified(ctx context.Context, userID, resetToken string, tokenExpiresAt time.Time) error
	Delete(ctx context.Context, userID string) error
	// DeleteExpired removes dead rows: unverified ones whose code expired
	// and verified ones whose reset token expired.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
