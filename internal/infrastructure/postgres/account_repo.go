package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, email, nombre, apellido, password_hash, codigo_area,
       numero_telefono, rol, estado, created_at, updated_at`

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) Promote(ctx context.Context, p *domain.PendingRegistration) (*domain.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin promote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO accounts (
			email, nombre, apellido, password_hash, codigo_area,
			numero_telefono, rol, estado
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accountColumns

	row := tx.QueryRow(ctx, query,
		p.Email,
		p.Nombre,
		p.Apellido,
		p.PasswordHash,
		p.CodigoArea,
		p.NumeroTelefono,
		domain.RolCustomer,
		domain.EstadoActive,
	)

	account, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// An account for this email appeared between the initial
			// duplicate check and verification. Abort without mutating.
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM pending_registrations WHERE email = $1`, p.Email); err != nil {
		return nil, fmt.Errorf("consume pending registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit promote tx: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM password_reset_requests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("consume reset request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Nombre,
		&a.Apellido,
		&a.PasswordHash,
		&a.CodigoArea,
		&a.NumeroTelefono,
		&a.Rol,
		&a.Estado,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
