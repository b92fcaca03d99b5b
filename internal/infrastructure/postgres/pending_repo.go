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

type PendingRegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewPendingRegistrationRepository(pool *pgxpool.Pool) *PendingRegistrationRepository {
	return &PendingRegistrationRepository{pool: pool}
}

func (r *PendingRegistrationRepository) Upsert(ctx context.Context, p *domain.PendingRegistration) error {
	// The unique key on email serializes concurrent requests for the same
	// address: the second writer overwrites, never duplicates.
	query := `
		INSERT INTO pending_registrations (
			email, nombre, apellido, password_hash, codigo_area,
			numero_telefono, code, code_expires_at, attempts, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (email) DO UPDATE SET
			nombre          = EXCLUDED.nombre,
			apellido        = EXCLUDED.apellido,
			password_hash   = EXCLUDED.password_hash,
			codigo_area     = EXCLUDED.codigo_area,
			numero_telefono = EXCLUDED.numero_telefono,
			code            = EXCLUDED.code,
			code_expires_at = EXCLUDED.code_expires_at,
			attempts        = EXCLUDED.attempts,
			created_at      = EXCLUDED.created_at`

	_, err := r.pool.Exec(ctx, query,
		p.Email,
		p.Nombre,
		p.Apellido,
		p.PasswordHash,
		p.CodigoArea,
		p.NumeroTelefono,
		p.Code,
		p.CodeExpiresAt,
		p.Attempts,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pending registration: %w", err)
	}
	return nil
}

func (r *PendingRegistrationRepository) Find(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	query := `
		SELECT email, nombre, apellido, password_hash, codigo_area,
		       numero_telefono, code, code_expires_at, attempts, created_at
		FROM pending_registrations
		WHERE email = $1`

	var p domain.PendingRegistration
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&p.Email,
		&p.Nombre,
		&p.Apellido,
		&p.PasswordHash,
		&p.CodigoArea,
		&p.NumeroTelefono,
		&p.Code,
		&p.CodeExpiresAt,
		&p.Attempts,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find pending registration: %w", err)
	}
	return &p, nil
}

func (r *PendingRegistrationRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	// Single-statement increment so two concurrent wrong submissions
	// cannot read-modify-write the same value.
	var attempts int
	err := r.pool.QueryRow(ctx,
		`UPDATE pending_registrations SET attempts = attempts + 1
		WHERE email = $1
		RETURNING attempts`, email,
	).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *PendingRegistrationRepository) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM pending_registrations WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}
	return nil
}

func (r *PendingRegistrationRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM pending_registrations WHERE code_expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired pending registrations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
