package repository

import (
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// TrialRepository handles database operations for cognitive trials
type TrialRepository struct {
	db *database.DB
}

// NewTrialRepository creates a new trial repository
func NewTrialRepository(db *database.DB) *TrialRepository {
	return &TrialRepository{db: db}
}

// Upsert inserts the trial or replaces the previous record for the same
// (session, question) pair. Clients may re-report a question; the latest
// submission wins
func (r *TrialRepository) Upsert(t *models.CognitiveTrial) error {
	query := r.db.Dialect.UpsertTrialQuery()
	_, err := r.db.Exec(query,
		t.SessionID, t.QuestionID, t.Level, t.Attempts, t.IsCorrect,
		t.ResponseTimeMs, t.PointsEarned, t.SelectedOption, t.HintUsed,
		t.AudioReplays, t.ConfusionType,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cognitive trial: %w", err)
	}
	return nil
}

// GetForSession retrieves a session's trials in question order
func (r *TrialRepository) GetForSession(sessionID int64) ([]models.CognitiveTrial, error) {
	query := `
		SELECT id, session_id, question_id, level, attempts, is_correct,
		       response_time_ms, points_earned, selected_option, hint_used,
		       audio_replays, confusion_type, created_at
		FROM cognitive_trials
		WHERE session_id = ?
		ORDER BY level ASC, question_id ASC
	`
	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cognitive trials: %w", err)
	}
	defer rows.Close()

	var trials []models.CognitiveTrial
	for rows.Next() {
		var t models.CognitiveTrial
		if err := rows.Scan(
			&t.ID, &t.SessionID, &t.QuestionID, &t.Level, &t.Attempts,
			&t.IsCorrect, &t.ResponseTimeMs, &t.PointsEarned, &t.SelectedOption,
			&t.HintUsed, &t.AudioReplays, &t.ConfusionType, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cognitive trial: %w", err)
		}
		trials = append(trials, t)
	}

	return trials, rows.Err()
}

// ConfusionCounts aggregates how often each confusion pattern appeared in a
// session's wrong answers
func (r *TrialRepository) ConfusionCounts(sessionID int64) (map[string]int, error) {
	query := `
		SELECT confusion_type, COUNT(*)
		FROM cognitive_trials
		WHERE session_id = ? AND is_correct = ? AND confusion_type != ''
		GROUP BY confusion_type
	`
	rows, err := r.db.Query(query, sessionID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query confusion counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var confusion string
		var count int
		if err := rows.Scan(&confusion, &count); err != nil {
			return nil, fmt.Errorf("failed to scan confusion count: %w", err)
		}
		counts[confusion] = count
	}

	return counts, rows.Err()
}
