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

// RecoveryUsecase drives the password-recovery flow against existing
// accounts: a mailed one-time code, an exchange of the code for a
// short-lived reset token, and the token-gated password change.
type RecoveryUsecase struct {
	accounts repository.AccountRepository
	resets   repository.PasswordResetRepository
	email    email.Sender
	jwtKey   []byte
	policy   Policy
}

func NewRecoveryUsecase(
	accounts repository.AccountRepository,
	resets repository.PasswordResetRepository,
	emailSender email.Sender,
	jwtKey []byte,
	policy Policy,
) *RecoveryUsecase {
	return &RecoveryUsecase{
		accounts: accounts,
		resets:   resets,
		email:    emailSender,
		jwtKey:   jwtKey,
		policy:   policy,
	}
}

// RequestCode creates or refreshes the reset request for the account
// behind emailAddr and mails the recovery code. If the mail cannot be
// delivered the previous request (if any) is restored untouched.
func (u *RecoveryUsecase) RequestCode(ctx context.Context, emailAddr string) error {
	account, err := u.accounts.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	prev, err := u.resets.FindByUserID(ctx, account.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find reset request: %w", err)
	}
	if prev != nil {
		if remaining := u.policy.cooldownRemaining(prev.CreatedAt); remaining > 0 {
			return &domain.CooldownError{Remaining: remaining}
		}
	}

	code, err := otp.Generate(u.policy.CodeLength)
	if err != nil {
		return err
	}

	now := time.Now()
	rec := &domain.PasswordResetRequest{
		UserID:    account.ID,
		Code:      code,
		ExpiresAt: now.Add(u.policy.CodeTTL),
		Attempts:  0,
		CreatedAt: now,
	}
	if err := u.resets.Upsert(ctx, rec); err != nil {
		return err
	}

	if err := u.email.SendCode(ctx, emailAddr, email.KindRecoveryCode, code); err != nil {
		if prev != nil {
			_ = u.resets.Upsert(ctx, prev)
		} else {
			_ = u.resets.Delete(ctx, account.ID)
		}
		metrics.DispatchFailuresTotal.WithLabelValues("recovery").Inc()
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	metrics.CodesIssuedTotal.WithLabelValues("recovery").Inc()
	return nil
}

// VerifyCode checks the submitted recovery code and, on a match, marks
// the request verified and returns a fresh reset token plus its
// lifetime in seconds. Check order matches the registration flow:
// attempts, then expiry, then the code.
func (u *RecoveryUsecase) VerifyCode(ctx context.Context, emailAddr, code string) (string, int, error) {
	account, err := u.accounts.FindByEmail(ctx, emailAddr)
	if err != nil {
		return "", 0, err
	}

	rec, err := u.resets.FindByUserID(ctx, account.ID)
	if err != nil {
		return "", 0, err
	}

	if rec.Attempts >= u.policy.MaxAttempts {
		_ = u.resets.Delete(ctx, account.ID)
		metrics.CodeVerificationsTotal.WithLabelValues("recovery", "exhausted").Inc()
		return "", 0, domain.ErrTooManyAttempts
	}

	if time.Now().After(rec.ExpiresAt) {
		_ = u.resets.Delete(ctx, account.ID)
		metrics.CodeVerificationsTotal.WithLabelValues("recovery", "expired").Inc()
		return "", 0, domain.ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(rec.Code)) != 1 {
		attempts, err := u.resets.IncrementAttempts(ctx, account.ID)
		if err != nil {
			return "", 0, err
		}
		metrics.CodeVerificationsTotal.WithLabelValues("recovery", "mismatch").Inc()
		return "", 0, &domain.InvalidCodeError{Remaining: u.policy.MaxAttempts - attempts}
	}

	token, err := otp.NewResetToken()
	if err != nil {
		return "", 0, err
	}
	if err := u.resets.MarkVerified(ctx, account.ID, token, time.Now().Add(u.policy.ResetTokenTTL)); err != nil {
		return "", 0, err
	}

	metrics.CodeVerificationsTotal.WithLabelValues("recovery", "match").Inc()
	return token, int(u.policy.ResetTokenTTL.Seconds()), nil
}

// ChangePassword consumes a verified, unexpired reset token: the account
// password is replaced, the reset request deleted, and a new session
// token issued, all or nothing.
func (u *RecoveryUsecase) ChangePassword(ctx context.Context, resetToken, newPassword string) (*domain.Account, string, error) {
	rec, err := u.resets.FindByToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrTokenInvalid
		}
		return nil, "", err
	}

	if !rec.Verified || rec.TokenExpiresAt == nil || time.Now().After(*rec.TokenExpiresAt) {
		_ = u.resets.Delete(ctx, rec.UserID)
		return nil, "", domain.ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := u.accounts.ResetPassword(ctx, rec.UserID, string(hash)); err != nil {
		return nil, "", err
	}

	account, err := u.accounts.FindByID(ctx, rec.UserID)
	if err != nil {
		return nil, "", err
	}

	token, err := signSession(u.jwtKey, account, u.policy.SessionTTL)
	if err != nil {
		return nil, "", err
	}

	metrics.PasswordsChangedTotal.Inc()
	return account, token, nil
}
