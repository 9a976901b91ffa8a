package repository

import (
	"database/sql"
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// SessionRepository handles database operations for game sessions
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, evaluation_id, game_id, session_url, position, status, score,
	correct_answers, incorrect_answers, time_seconds, levels_completed,
	total_clicks, total_hits, total_misses, precision_pct, created_at, completed_at
`

// Create inserts a pending session at the given position of the evaluation's chain
func (r *SessionRepository) Create(evaluationID, gameID int64, sessionURL string, position int) (*models.GameSession, error) {
	query := `
		INSERT INTO game_sessions (evaluation_id, game_id, session_url, position, status)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecReturningID(query, evaluationID, gameID, sessionURL, position, models.SessionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}
	return r.GetByURL(sessionURL)
}

// GetByURL retrieves a session by its URL token, or nil when none exists
func (r *SessionRepository) GetByURL(sessionURL string) (*models.GameSession, error) {
	query := "SELECT " + sessionColumns + " FROM game_sessions WHERE session_url = ?"
	return r.scanOne(r.db.QueryRow(query, sessionURL))
}

// GetForEvaluation retrieves an evaluation's sessions in chain order
func (r *SessionRepository) GetForEvaluation(evaluationID int64) ([]models.GameSession, error) {
	query := "SELECT " + sessionColumns + " FROM game_sessions WHERE evaluation_id = ? ORDER BY position ASC"
	rows, err := r.db.Query(query, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

// NextPending returns the evaluation's first pending session after the given
// position, or nil when none remains
func (r *SessionRepository) NextPending(evaluationID int64, afterPosition int) (*models.GameSession, error) {
	query := "SELECT " + sessionColumns + ` FROM game_sessions
		WHERE evaluation_id = ? AND status = ? AND position > ?
		ORDER BY position ASC
		LIMIT 1`
	return r.scanOne(r.db.QueryRow(query, evaluationID, models.SessionPending, afterPosition))
}

// CountByStatus returns how many of the evaluation's sessions are in the
// given status
func (r *SessionRepository) CountByStatus(evaluationID int64, status string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM game_sessions WHERE evaluation_id = ? AND status = ?"
	if err := r.db.QueryRow(query, evaluationID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// MarkInProgress flips a pending session to in_progress
func (r *SessionRepository) MarkInProgress(sessionURL string) error {
	query := "UPDATE game_sessions SET status = ? WHERE session_url = ? AND status = ?"
	if _, err := r.db.Exec(query, models.SessionInProgress, sessionURL, models.SessionPending); err != nil {
		return fmt.Errorf("failed to mark session in progress: %w", err)
	}
	return nil
}

// UpdateLevelTotals stores a level's running results on the session row.
// precision_pct is assigned before the counters it reads: MySQL evaluates
// SET assignments left to right against already-updated values, so the CASE
// must see the pre-increment counters
func (r *SessionRepository) UpdateLevelTotals(sessionURL string, score, correct, incorrect int) error {
	query := `
		UPDATE game_sessions
		SET precision_pct = CASE
		        WHEN correct_answers + incorrect_answers + ? + ? > 0
		        THEN 100.0 * (correct_answers + ?) / (correct_answers + incorrect_answers + ? + ?)
		        ELSE 0
		    END,
		    score = ?,
		    correct_answers = correct_answers + ?,
		    incorrect_answers = incorrect_answers + ?
		WHERE session_url = ?
	`
	_, err := r.db.Exec(query, correct, incorrect, correct, correct, incorrect,
		score, correct, incorrect, sessionURL)
	if err != nil {
		return fmt.Errorf("failed to update session totals: %w", err)
	}
	return nil
}

// Finish stores the final totals and marks the session completed
func (r *SessionRepository) Finish(sessionURL string, f models.GameSession) error {
	query := `
		UPDATE game_sessions
		SET status = ?,
		    score = ?,
		    correct_answers = ?,
		    incorrect_answers = ?,
		    time_seconds = ?,
		    levels_completed = ?,
		    total_clicks = ?,
		    total_hits = ?,
		    total_misses = ?,
		    precision_pct = ?,
		    completed_at = CURRENT_TIMESTAMP
		WHERE session_url = ?
	`
	_, err := r.db.Exec(query, models.SessionCompleted,
		f.Score, f.CorrectAnswers, f.IncorrectAnswers, f.TimeSeconds,
		f.LevelsCompleted, f.TotalClicks, f.TotalHits, f.TotalMisses,
		f.Precision, sessionURL)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}

func (r *SessionRepository) scanOne(row *sql.Row) (*models.GameSession, error) {
	s := &models.GameSession{}
	err := row.Scan(
		&s.ID, &s.EvaluationID, &s.GameID, &s.SessionURL, &s.Position, &s.Status,
		&s.Score, &s.CorrectAnswers, &s.IncorrectAnswers, &s.TimeSeconds,
		&s.LevelsCompleted, &s.TotalClicks, &s.TotalHits, &s.TotalMisses,
		&s.Precision, &s.CreatedAt, &s.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) scanRow(rows *sql.Rows) (*models.GameSession, error) {
	s := &models.GameSession{}
	err := rows.Scan(
		&s.ID, &s.EvaluationID, &s.GameID, &s.SessionURL, &s.Position, &s.Status,
		&s.Score, &s.CorrectAnswers, &s.IncorrectAnswers, &s.TimeSeconds,
		&s.LevelsCompleted, &s.TotalClicks, &s.TotalHits, &s.TotalMisses,
		&s.Precision, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan game session: %w", err)
	}
	return s, nil
}
