package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"lexio/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const ProfessionalContextKey ContextKey = "professional"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	jwtSecret string
	limiter   *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(jwtSecret string, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		jwtSecret: jwtSecret,
		limiter:   limiter,
	}
}

// RequireAuth requires a valid bearer token and puts its claims on the
// request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := security.ParseToken(m.jwtSecret, token)
		if err != nil {
			respondWithJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ProfessionalContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// ClaimsFromContext retrieves the authenticated professional's claims from
// the request context
func ClaimsFromContext(ctx context.Context) *security.APIClaims {
	claims, ok := ctx.Value(ProfessionalContextKey).(*security.APIClaims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
