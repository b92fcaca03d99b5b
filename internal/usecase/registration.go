package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/elbuensabor/verification-service/internal/email"
	"github.com/elbuensabor/verification-service/internal/metrics"
	"github.com/elbuensabor/verification-service/internal/otp"
	"github.com/elbuensabor/verification-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// RegistrationUsecase drives the sign-up verification flow: staging a
// pending registration, mailing a one-time code, and promoting the
// staged row into an account when the code checks out.
type RegistrationUsecase struct {
	pending  repository.PendingRegistrationRepository
	accounts repository.AccountRepository
	email    email.Sender
	jwtKey   []byte
	policy   Policy
}

func NewRegistrationUsecase(
	pending repository.PendingRegistrationRepository,
	accounts repository.AccountRepository,
	emailSender email.Sender,
	jwtKey []byte,
	policy Policy,
) *RegistrationUsecase {
	return &RegistrationUsecase{
		pending:  pending,
		accounts: accounts,
		email:    emailSender,
		jwtKey:   jwtKey,
		policy:   policy,
	}
}

type RequestCodeInput struct {
	Email          string
	Password       string
	Nombre         string
	Apellido       string
	CodigoArea     string
	NumeroTelefono string
}

// RequestCode stages (or re-stages) a pending registration and mails a
// fresh code. A re-request inside the resend cooldown is rejected; one
// after it overwrites the staged row, resetting attempts.
func (u *RegistrationUsecase) RequestCode(ctx context.Context, in RequestCodeInput) error {
	if _, err := u.accounts.FindByEmail(ctx, in.Email); err == nil {
		return domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("check existing account: %w", err)
	}

	existing, err := u.pending.Find(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find pending registration: %w", err)
	}
	if existing != nil {
		if remaining := u.policy.cooldownRemaining(existing.CreatedAt); remaining > 0 {
			return &domain.CooldownError{Remaining: remaining}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code, err := otp.Generate(u.policy.CodeLength)
	if err != nil {
		return err
	}

	now := time.Now()
	rec := &domain.PendingRegistration{
		Email:          in.Email,
		Nombre:         in.Nombre,
		Apellido:       in.Apellido,
		PasswordHash:   string(hash),
		CodigoArea:     in.CodigoArea,
		NumeroTelefono: in.NumeroTelefono,
		Code:           code,
		CodeExpiresAt:  now.Add(u.policy.CodeTTL),
		Attempts:       0,
		CreatedAt:      now,
	}
	if err := u.pending.Upsert(ctx, rec); err != nil {
		return err
	}

	if err := u.email.SendCode(ctx, in.Email, email.KindVerificationCode, code); err != nil {
		// Roll back so the user can retry cleanly.
		_ = u.pending.Delete(ctx, in.Email)
		metrics.DispatchFailuresTotal.WithLabelValues("registration").Inc()
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	metrics.CodesIssuedTotal.WithLabelValues("registration").Inc()
	return nil
}

// ResendCode regenerates the code for an already staged registration,
// subject to the same cooldown. Attempts reset to zero with the new code.
func (u *RegistrationUsecase) ResendCode(ctx context.Context, emailAddr string) error {
	rec, err := u.pending.Find(ctx, emailAddr)
	if err != nil {
		return err
	}

	if remaining := u.policy.cooldownRemaining(rec.CreatedAt); remaining > 0 {
		return &domain.CooldownError{Remaining: remaining}
	}

	code, err := otp.Generate(u.policy.CodeLength)
	if err != nil {
		return err
	}

	now := time.Now()
	rec.Code = code
	rec.CodeExpiresAt = now.Add(u.policy.CodeTTL)
	rec.Attempts = 0
	rec.CreatedAt = now
	if err := u.pending.Upsert(ctx, rec); err != nil {
		return err
	}

	if err := u.email.SendCode(ctx, emailAddr, email.KindVerificationCode, code); err != nil {
		_ = u.pending.Delete(ctx, emailAddr)
		metrics.DispatchFailuresTotal.WithLabelValues("registration").Inc()
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	metrics.CodesIssuedTotal.WithLabelValues("registration").Inc()
	return nil
}

// VerifyCode validates the submitted code against the staged row and, on
// a match, promotes it into a durable account plus a session token.
// Check order is fixed: attempts, then expiry, then the code itself.
func (u *RegistrationUsecase) VerifyCode(ctx context.Context, emailAddr, code string) (*domain.Account, string, error) {
	rec, err := u.pending.Find(ctx, emailAddr)
	if err != nil {
		return nil, "", err
	}

	if rec.Attempts >= u.policy.MaxAttempts {
		_ = u.pending.Delete(ctx, emailAddr)
		metrics.CodeVerificationsTotal.WithLabelValues("registration", "exhausted").Inc()
		return nil, "", domain.ErrTooManyAttempts
	}

	if time.Now().After(rec.CodeExpiresAt) {
		_ = u.pending.Delete(ctx, emailAddr)
		metrics.CodeVerificationsTotal.WithLabelValues("registration", "expired").Inc()
		return nil, "", domain.ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(rec.Code)) != 1 {
		attempts, err := u.pending.IncrementAttempts(ctx, emailAddr)
		if err != nil {
			return nil, "", err
		}
		metrics.CodeVerificationsTotal.WithLabelValues("registration", "mismatch").Inc()
		return nil, "", &domain.InvalidCodeError{Remaining: u.policy.MaxAttempts - attempts}
	}

	account, err := u.accounts.Promote(ctx, rec)
	if err != nil {
		return nil, "", err
	}

	token, err := signSession(u.jwtKey, account, u.policy.SessionTTL)
	if err != nil {
		return nil, "", err
	}

	metrics.CodeVerificationsTotal.WithLabelValues("registration", "match").Inc()
	metrics.AccountsPromotedTotal.Inc()
	return account, token, nil
}
