package service

import (
	"errors"
	"fmt"
	"time"

	"lexio/internal/models"
	"lexio/internal/repository"
	"lexio/internal/security"
	"lexio/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles professional account authentication
type AuthService struct {
	professionals *repository.ProfessionalRepository
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(professionals *repository.ProfessionalRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		professionals: professionals,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new professional account and issues an API token
func (s *AuthService) Register(email, password, fullName, specialty string) (*models.Professional, string, error) {
	// Validate inputs
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := validation.ValidateName(fullName); err != nil {
		return nil, "", err
	}

	// Check if email already exists
	existing, err := s.professionals.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing professional: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	professional, err := s.professionals.Create(email, passwordHash, fullName, specialty, "")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create professional: %w", err)
	}

	token, err := s.issueToken(professional)
	if err != nil {
		return nil, "", err
	}
	return professional, token, nil
}

// Login authenticates a professional and issues an API token
func (s *AuthService) Login(email, password string) (*models.Professional, string, error) {
	professional, err := s.professionals.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get professional: %w", err)
	}
	if professional == nil {
		return nil, "", ErrInvalidCredentials
	}

	// Accounts created through Google sign-in have no password to check
	if professional.IsOAuthOnly() {
		return nil, "", ErrInvalidCredentials
	}
	if !security.CheckPassword(password, professional.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(professional)
	if err != nil {
		return nil, "", err
	}
	return professional, token, nil
}

// GoogleLogin signs a professional in from a verified Google identity,
// creating the account on first sign-in and linking the Google ID to an
// existing account when the email already belongs to one
func (s *AuthService) GoogleLogin(googleID, email, fullName string) (*models.Professional, string, error) {
	if googleID == "" {
		return nil, "", ErrInvalidCredentials
	}

	professional, err := s.professionals.GetByGoogleID(googleID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up google id: %w", err)
	}

	if professional == nil {
		professional, err = s.professionals.GetByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get professional: %w", err)
		}
		if professional != nil {
			if err := s.professionals.LinkGoogleID(professional.ID, googleID); err != nil {
				return nil, "", fmt.Errorf("failed to link google id: %w", err)
			}
		} else {
			if err := validation.ValidateEmail(email); err != nil {
				return nil, "", err
			}
			professional, err = s.professionals.Create(email, "", fullName, "", googleID)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create professional: %w", err)
			}
		}
	}

	token, err := s.issueToken(professional)
	if err != nil {
		return nil, "", err
	}
	return professional, token, nil
}

// Professional returns a professional by id, or ErrInvalidCredentials when
// the account no longer exists
func (s *AuthService) Professional(id int64) (*models.Professional, error) {
	professional, err := s.professionals.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	if professional == nil {
		return nil, ErrInvalidCredentials
	}
	return professional, nil
}

func (s *AuthService) issueToken(p *models.Professional) (string, error) {
	token, err := security.IssueToken(s.jwtSecret, p.ID, p.Email, s.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
