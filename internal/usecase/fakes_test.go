package usecase_test

import (
	"context"
	"time"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/elbuensabor/verification-service/internal/email"
)

// Hand-rolled fakes: each repo method delegates to a func field so
// individual tests wire only what they need.

type fakePendingRepo struct {
	upsert            func(ctx context.Context, p *domain.PendingRegistration) error
	find              func(ctx context.Context, email string) (*domain.PendingRegistration, error)
	incrementAttempts func(ctx context.Context, email string) (int, error)
	delete            func(ctx context.Context, email string) error
	deleteExpired     func(ctx context.Context, now time.Time) (int, error)
}

func (r *fakePendingRepo) Upsert(ctx context.Context, p *domain.PendingRegistration) error {
	return r.upsert(ctx, p)
}

func (r *fakePendingRepo) Find(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	return r.find(ctx, email)
}

func (r *fakePendingRepo) IncrementAttempts(ctx context.Context, email string) (int, error) {
	return r.incrementAttempts(ctx, email)
}

func (r *fakePendingRepo) Delete(ctx context.Context, email string) error {
	return r.delete(ctx, email)
}

func (r *fakePendingRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return r.deleteExpired(ctx, now)
}

type fakeResetRepo struct {
	upsert            func(ctx context.Context, req *domain.PasswordResetRequest) error
	findByUserID      func(ctx context.Context, userID string) (*domain.PasswordResetRequest, error)
	findByToken       func(ctx context.Context, resetToken string) (*domain.PasswordResetRequest, error)
	incrementAttempts func(ctx context.Context, userID string) (int, error)
	markVerified      func(ctx context.Context, userID, resetToken string, tokenExpiresAt time.Time) error
	delete            func(ctx context.Context, userID string) error
	deleteExpired     func(ctx context.Context, now time.Time) (int, error)
}

func (r *fakeResetRepo) Upsert(ctx context.Context, req *domain.PasswordResetRequest) error {
	return r.upsert(ctx, req)
}

func (r *fakeResetRepo) FindByUserID(ctx context.Context, userID string) (*domain.PasswordResetRequest, error) {
	return r.findByUserID(ctx, userID)
}

func (r *fakeResetRepo) FindByToken(ctx context.Context, resetToken string) (*domain.PasswordResetRequest, error) {
	return r.findByToken(ctx, resetToken)
}

func (r *fakeResetRepo) IncrementAttempts(ctx context.Context, userID string) (int, error) {
	return r.incrementAttempts(ctx, userID)
}

func (r *fakeResetRepo) MarkVerified(ctx context.Context, userID, resetToken string, tokenExpiresAt time.Time) error {
	return r.markVerified(ctx, userID, resetToken, tokenExpiresAt)
}

func (r *fakeResetRepo) Delete(ctx context.Context, userID string) error {
	return r.delete(ctx, userID)
}

func (r *fakeResetRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return r.deleteExpired(ctx, now)
}

type fakeAccountRepo struct {
	findByEmail   func(ctx context.Context, email string) (*domain.Account, error)
	findByID      func(ctx context.Context, id string) (*domain.Account, error)
	promote       func(ctx context.Context, p *domain.PendingRegistration) (*domain.Account, error)
	resetPassword func(ctx context.Context, userID, passwordHash string) error
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findByID(ctx, id)
}

func (r *fakeAccountRepo) Promote(ctx context.Context, p *domain.PendingRegistration) (*domain.Account, error) {
	return r.promote(ctx, p)
}

func (r *fakeAccountRepo) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	return r.resetPassword(ctx, userID, passwordHash)
}

type fakeSender struct {
	sendCode func(ctx context.Context, to string, kind email.Kind, code string) error
}

func (s *fakeSender) SendCode(ctx context.Context, to string, kind email.Kind, code string) error {
	return s.sendCode(ctx, to, kind, code)
}

// noAccount is a fakeAccountRepo.findByEmail that reports no account.
func noAccount(_ context.Context, _ string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

// sendOK is a fakeSender.sendCode that accepts everything.
func sendOK(_ context.Context, _ string, _ email.Kind, _ string) error {
	return nil
}
