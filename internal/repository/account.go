package repository

import (
	"context"

	"github.com/elbuensabor/verification-service/internal/domain"
)

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// Promote turns a pending registration into a durable account and
	// deletes the staged row in a single transaction. The email duplicate
	// check is re-evaluated inside the transaction; a conflicting account
	// aborts the whole unit with domain.ErrAlreadyRegistered.
	Promote(ctx context.Context, p *domain.PendingRegistration) (*domain.Account, error)
	// ResetPassword updates the account's password hash and consumes the
	// password reset row in a single transaction.
	ResetPassword(ctx context.Context, userID, passwordHash string) error
}
