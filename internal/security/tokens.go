package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// APIClaims are the claims carried by professional API tokens
type APIClaims struct {
	ProfessionalID int64  `json:"pid"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 API token for a professional
func IssueToken(secret string, professionalID int64, email string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := APIClaims{
		ProfessionalID: professionalID,
		Email:          email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lexio",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns its claims
func ParseToken(secret, tokenString string) (*APIClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &APIClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*APIClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
