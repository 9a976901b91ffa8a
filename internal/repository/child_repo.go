package repository

import (
	"database/sql"
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// ChildRepository handles database operations for children
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// Create registers a child under a professional
func (r *ChildRepository) Create(professionalID int64, name string, age int, grade, notes string) (*models.Child, error) {
	query := `
		INSERT INTO children (professional_id, name, age, grade, notes)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, professionalID, name, age, grade, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a child by ID, or nil when none exists
func (r *ChildRepository) GetByID(id int64) (*models.Child, error) {
	query := `
		SELECT id, professional_id, name, age, grade, notes, created_at, updated_at
		FROM children
		WHERE id = ?
	`
	c := &models.Child{}
	err := r.db.QueryRow(query, id).Scan(
		&c.ID,
		&c.ProfessionalID,
		&c.Name,
		&c.Age,
		&c.Grade,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return c, nil
}

// GetForProfessional retrieves all children registered by a professional
func (r *ChildRepository) GetForProfessional(professionalID int64) ([]models.Child, error) {
	query := `
		SELECT id, professional_id, name, age, grade, notes, created_at, updated_at
		FROM children
		WHERE professional_id = ?
		ORDER BY name ASC
	`
	rows, err := r.db.Query(query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var c models.Child
		if err := rows.Scan(
			&c.ID,
			&c.ProfessionalID,
			&c.Name,
			&c.Age,
			&c.Grade,
			&c.Notes,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, c)
	}

	return children, rows.Err()
}
