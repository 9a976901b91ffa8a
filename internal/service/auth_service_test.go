package service

import (
	"errors"
	"testing"
	"time"

	"lexio/internal/security"
)

func newAuthService(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewAuthService(env.professionals, "test-secret", time.Hour), env
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t)

	professional, token, err := auth.Register("maria@example.com", "segura1234", "María López", "psicopedagogía")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if professional.Email != "maria@example.com" {
		t.Errorf("email = %s, want maria@example.com", professional.Email)
	}
	if token == "" {
		t.Error("Register returned empty token")
	}

	claims, err := security.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.ProfessionalID != professional.ID {
		t.Errorf("token professional = %d, want %d", claims.ProfessionalID, professional.ID)
	}

	loggedIn, token, err := auth.Login("maria@example.com", "segura1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != professional.ID {
		t.Errorf("login professional = %d, want %d", loggedIn.ID, professional.ID)
	}
	if token == "" {
		t.Error("Login returned empty token")
	}
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
		fullName string
	}{
		{"bad email", "not-an-email", "segura1234", "María"},
		{"short password", "maria@example.com", "corta", "María"},
		{"empty name", "maria@example.com", "segura1234", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := auth.Register(tt.email, tt.password, tt.fullName, ""); err == nil {
				t.Error("Register accepted invalid input")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)

	if _, _, err := auth.Register("maria@example.com", "segura1234", "María López", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := auth.Register("maria@example.com", "otraclave99", "Otra María", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _ := newAuthService(t)

	if _, _, err := auth.Register("maria@example.com", "segura1234", "María López", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := auth.Login("maria@example.com", "equivocada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login("nadie@example.com", "segura1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGoogleLogin(t *testing.T) {
	auth, env := newAuthService(t)

	// First sign-in creates the account
	created, token, err := auth.GoogleLogin("google-123", "pedro@example.com", "Pedro Ruiz")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if token == "" {
		t.Error("GoogleLogin returned empty token")
	}
	if !created.IsOAuthOnly() {
		t.Error("created account should be OAuth-only")
	}

	// Second sign-in finds it by google id
	again, _, err := auth.GoogleLogin("google-123", "pedro@example.com", "Pedro Ruiz")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("second sign-in id = %d, want %d", again.ID, created.ID)
	}

	// OAuth-only accounts cannot log in with a password
	if _, _, err := auth.Login("pedro@example.com", "cualquiera1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("password login err = %v, want ErrInvalidCredentials", err)
	}

	// A Google identity matching an existing email links to that account
	registered, _, err := auth.Register("laura@example.com", "segura1234", "Laura Gil", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	linked, _, err := auth.GoogleLogin("google-456", "laura@example.com", "Laura Gil")
	if err != nil {
		t.Fatalf("GoogleLogin: %v", err)
	}
	if linked.ID != registered.ID {
		t.Errorf("linked id = %d, want %d", linked.ID, registered.ID)
	}
	stored, err := env.professionals.GetByGoogleID("google-456")
	if err != nil || stored == nil {
		t.Fatalf("GetByGoogleID: %v, %v", stored, err)
	}
	if stored.ID != registered.ID {
		t.Errorf("stored google id belongs to %d, want %d", stored.ID, registered.ID)
	}
}
