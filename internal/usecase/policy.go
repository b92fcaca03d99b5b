package usecase

import "time"

// Policy holds the verification workflow constants. Values come from
// config at startup; tests shrink them as needed.
type Policy struct {
	CodeLength     int
	CodeTTL        time.Duration
	MaxAttempts    int
	ResendCooldown time.Duration
	ResetTokenTTL  time.Duration
	SessionTTL     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		CodeLength:     6,
		CodeTTL:        10 * time.Minute,
		MaxAttempts:    5,
		ResendCooldown: 60 * time.Second,
		ResetTokenTTL:  5 * time.Minute,
		SessionTTL:     7 * 24 * time.Hour,
	}
}

// cooldownRemaining returns how long until another code may be issued
// for a record created at createdAt, or 0 if the cooldown has elapsed.
func (p Policy) cooldownRemaining(createdAt time.Time) time.Duration {
	elapsed := time.Since(createdAt)
	if elapsed >= p.ResendCooldown {
		return 0
	}
	return p.ResendCooldown - elapsed
}
