package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("no verification record found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAlreadyRegistered  = errors.New("email is already registered")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrTooManyAttempts    = errors.New("too many incorrect attempts")
	ErrTokenInvalid       = errors.New("reset token is invalid or expired")
	ErrDispatchFailed     = errors.New("could not deliver the verification email")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// CooldownError is returned when a code is requested again before the
// resend cooldown has elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("resend cooldown active, retry in %ds", int(e.Remaining.Seconds()))
}

// InvalidCodeError is returned on a code mismatch. Remaining tells the
// caller how many attempts are left before the record is discarded.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("incorrect code, %d attempts remaining", e.Remaining)
}

// PendingRegistration is a staged sign-up awaiting email verification.
// At most one row exists per email; re-requesting a code overwrites the
// row instead of duplicating it.
type PendingRegistration struct {
	Email          string
	Nombre         string
	Apellido       string
	PasswordHash   string
	CodigoArea     string
	NumeroTelefono string
	Code           string
	CodeExpiresAt  time.Time
	Attempts       int
	CreatedAt      time.Time // doubles as the last-sent marker for the cooldown
}

// PasswordResetRequest is an in-flight recovery flow for an existing
// account, one active request per user. Verified flips to true exactly
// once, when the recovery code is entered correctly; the reset token it
// carries then authorizes a single password change.
type PasswordResetRequest struct {
	UserID         string
	Code           string
	ExpiresAt      time.Time
	Attempts       int
	CreatedAt      time.Time
	Verified       bool
	ResetToken     *string
	TokenExpiresAt *time.Time
}
