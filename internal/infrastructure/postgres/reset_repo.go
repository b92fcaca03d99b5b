package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PasswordResetRepository struct {
	pool *pgxpool.Pool
}

func NewPasswordResetRepository(pool *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{pool: pool}
}

func (r *PasswordResetRepository) Upsert(ctx context.Context, req *domain.PasswordResetRequest) error {
	query := `
		INSERT INTO password_reset_requests (
			user_id, code, expires_at, attempts, created_at,
			verified, reset_token, token_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			code             = EXCLUDED.code,
			expires_at       = EXCLUDED.expires_at,
			attempts         = EXCLUDED.attempts,
			created_at       = EXCLUDED.created_at,
			verified         = EXCLUDED.verified,
			reset_token      = EXCLUDED.reset_token,
			token_expires_at = EXCLUDED.token_expires_at`

	_, err := r.pool.Exec(ctx, query,
		req.UserID,
		req.Code,
		req.ExpiresAt,
		req.Attempts,
		req.CreatedAt,
		req.Verified,
		req.ResetToken,
		req.TokenExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert password reset request: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) FindByUserID(ctx context.Context, userID string) (*domain.PasswordResetRequest, error) {
	query := `
		SELECT user_id, code, expires_at, attempts, created_at,
		       verified, reset_token, token_expires_at
		FROM password_reset_requests
		WHERE user_id = $1`

	return scanResetRequest(r.pool.QueryRow(ctx, query, userID))
}

func (r *PasswordResetRepository) FindByToken(ctx context.Context, resetToken string) (*domain.PasswordResetRequest, error) {
	query := `
		SELECT user_id, code, expires_at, attempts, created_at,
		       verified, reset_token, token_expires_at
		FROM password_reset_requests
		WHERE reset_token = $1 AND verified = TRUE`

	return scanResetRequest(r.pool.QueryRow(ctx, query, resetToken))
}

func (r *PasswordResetRepository) IncrementAttempts(ctx context.Context, userID string) (int, error) {
	var attempts int
	err := r.pool.QueryRow(ctx,
		`UPDATE password_reset_requests SET attempts = attempts + 1
		WHERE user_id = $1
		RETURNING attempts`, userID,
	).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *PasswordResetRepository) MarkVerified(ctx context.Context, userID, resetToken string, tokenExpiresAt time.Time) error {
	// The verified = FALSE predicate makes the transition one-shot: of two
	// concurrent correct submissions only one claims the row.
	tag, err := r.pool.Exec(ctx, `
		UPDATE password_reset_requests
		SET    verified         = TRUE,
		       reset_token      = $2,
		       token_expires_at = $3
		WHERE  user_id = $1 AND verified = FALSE`,
		userID, resetToken, tokenExpiresAt)
	if err != nil {
		return fmt.Errorf("mark reset request verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PasswordResetRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM password_reset_requests WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete password reset request: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM password_reset_requests
		WHERE (verified = FALSE AND expires_at < $1)
		   OR (verified = TRUE AND token_expires_at < $1)`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired reset requests: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanResetRequest(row pgx.Row) (*domain.PasswordResetRequest, error) {
	var req domain.PasswordResetRequest
	err := row.Scan(
		&req.UserID,
		&req.Code,
		&req.ExpiresAt,
		&req.Attempts,
		&req.CreatedAt,
		&req.Verified,
		&req.ResetToken,
		&req.TokenExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan reset request: %w", err)
	}
	return &req, nil
}
