package usecase

import (
	"fmt"
	"time"

	"github.com/elbuensabor/verification-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// signSession issues the bearer session credential returned after a
// successful verification, login or password change.
func signSession(key []byte, account *domain.Account, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"rol":   account.Rol,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
