package repository

import (
	"database/sql"
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// GameRepository handles database operations for the minigame catalog
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a catalog entry
func (r *GameRepository) Create(name, slug, description string, position int) (*models.Game, error) {
	query := `
		INSERT INTO games (name, slug, description, position, active)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, slug, description, position, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a game by ID, or nil when none exists
func (r *GameRepository) GetByID(id int64) (*models.Game, error) {
	query := `
		SELECT id, name, slug, description, position, active, created_at
		FROM games
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySlug retrieves a game by slug, or nil when none exists
func (r *GameRepository) GetBySlug(slug string) (*models.Game, error) {
	query := `
		SELECT id, name, slug, description, position, active, created_at
		FROM games
		WHERE slug = ?
	`
	return r.scanOne(r.db.QueryRow(query, slug))
}

// GetActive retrieves the active games in catalog order
func (r *GameRepository) GetActive() ([]models.Game, error) {
	query := `
		SELECT id, name, slug, description, position, active, created_at
		FROM games
		WHERE active = ?
		ORDER BY position ASC
	`
	rows, err := r.db.Query(query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Slug,
			&g.Description,
			&g.Position,
			&g.Active,
			&g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}

	return games, rows.Err()
}

func (r *GameRepository) scanOne(row *sql.Row) (*models.Game, error) {
	g := &models.Game{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Slug,
		&g.Description,
		&g.Position,
		&g.Active,
		&g.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}
