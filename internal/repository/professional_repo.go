package repository

import (
	"database/sql"
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// ProfessionalRepository handles database operations for professional accounts
type ProfessionalRepository struct {
	db *database.DB
}

// NewProfessionalRepository creates a new professional repository
func NewProfessionalRepository(db *database.DB) *ProfessionalRepository {
	return &ProfessionalRepository{db: db}
}

// Create inserts a new professional account
func (r *ProfessionalRepository) Create(email, passwordHash, fullName, specialty, googleID string) (*models.Professional, error) {
	query := `
		INSERT INTO professionals (email, password_hash, full_name, specialty, google_id)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, passwordHash, fullName, specialty, googleID)
	if err != nil {
		return nil, fmt.Errorf("failed to create professional: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a professional by ID
func (r *ProfessionalRepository) GetByID(id int64) (*models.Professional, error) {
	query := `
		SELECT id, email, password_hash, full_name, specialty, google_id, created_at, updated_at
		FROM professionals
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a professional by email, or nil when none exists
func (r *ProfessionalRepository) GetByEmail(email string) (*models.Professional, error) {
	query := `
		SELECT id, email, password_hash, full_name, specialty, google_id, created_at, updated_at
		FROM professionals
		WHERE email = ?
	`
	return r.scanOne(r.db.QueryRow(query, email))
}

// GetByGoogleID retrieves a professional by Google subject ID
func (r *ProfessionalRepository) GetByGoogleID(googleID string) (*models.Professional, error) {
	query := `
		SELECT id, email, password_hash, full_name, specialty, google_id, created_at, updated_at
		FROM professionals
		WHERE google_id = ?
	`
	return r.scanOne(r.db.QueryRow(query, googleID))
}

// LinkGoogleID attaches a Google subject ID to an existing account
func (r *ProfessionalRepository) LinkGoogleID(id int64, googleID string) error {
	query := "UPDATE professionals SET google_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, googleID, id); err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return nil
}

func (r *ProfessionalRepository) scanOne(row *sql.Row) (*models.Professional, error) {
	p := &models.Professional{}
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.Specialty,
		&p.GoogleID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return p, nil
}
