package usecase

import (
	"context"
	"errors"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/elbuensabor/verification-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase covers plain credential login and profile lookup for
// already-verified accounts.
type AuthUsecase struct {
	accounts repository.AccountRepository
	jwtKey   []byte
	policy   Policy
}

func NewAuthUsecase(accounts repository.AccountRepository, jwtKey []byte, policy Policy) *AuthUsecase {
	return &AuthUsecase{accounts: accounts, jwtKey: jwtKey, policy: policy}
}

func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.Account, string, error) {
	account, err := u.accounts.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Same error as a bad password, so the response does not
			// reveal which emails are registered.
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if account.Estado != domain.EstadoActive {
		return nil, "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := signSession(u.jwtKey, account, u.policy.SessionTTL)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (*domain.Account, error) {
	return u.accounts.FindByID(ctx, userID)
}
