package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CSRFGenerator generates and validates CSRF tokens using HMAC-SHA256.
// Tokens are derived deterministically from the session URL and a secret key,
// so no shared state is required across replicas.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a new stateless HMAC-based CSRF generator.
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

// GenerateToken returns a deterministic CSRF token for the given session URL.
func (g *CSRFGenerator) GenerateToken(sessionURL string) (string, error) {
	if sessionURL == "" {
		return "", fmt.Errorf("session URL is required")
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionURL))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateToken reports whether token is the valid CSRF token for sessionURL.
func (g *CSRFGenerator) ValidateToken(sessionURL, token string) bool {
	if sessionURL == "" || token == "" {
		return false
	}
	expected, err := g.GenerateToken(sessionURL)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
