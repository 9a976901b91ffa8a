package repository

import (
	"database/sql"
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// EvaluationRepository handles database operations for evaluations
type EvaluationRepository struct {
	db *database.DB
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *database.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Create inserts a pending evaluation with the given session count
func (r *EvaluationRepository) Create(childID, professionalID int64, aiEvaluation bool, sessionsTotal int) (*models.Evaluation, error) {
	query := `
		INSERT INTO evaluations (child_id, professional_id, es_evaluacion_ia, status, sessions_total)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, childID, professionalID, aiEvaluation, models.EvaluationPending, sessionsTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves an evaluation by ID, or nil when none exists
func (r *EvaluationRepository) GetByID(id int64) (*models.Evaluation, error) {
	query := `
		SELECT id, child_id, professional_id, es_evaluacion_ia, status, total_score,
		       questions_answered, total_time_seconds, average_precision, sessions_total,
		       created_at, completed_at
		FROM evaluations
		WHERE id = ?
	`
	e := &models.Evaluation{}
	err := r.db.QueryRow(query, id).Scan(
		&e.ID,
		&e.ChildID,
		&e.ProfessionalID,
		&e.AIEvaluation,
		&e.Status,
		&e.TotalScore,
		&e.QuestionsAnswered,
		&e.TotalTimeSeconds,
		&e.AveragePrecision,
		&e.SessionsTotal,
		&e.CreatedAt,
		&e.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return e, nil
}

// MarkInProgress flips a pending evaluation to in_progress
func (r *EvaluationRepository) MarkInProgress(id int64) error {
	query := "UPDATE evaluations SET status = ? WHERE id = ? AND status = ?"
	if _, err := r.db.Exec(query, models.EvaluationInProgress, id, models.EvaluationPending); err != nil {
		return fmt.Errorf("failed to mark evaluation in progress: %w", err)
	}
	return nil
}

// RecomputeTotals refreshes the evaluation's aggregates from its sessions.
// Idempotent, so it can run after every session update
func (r *EvaluationRepository) RecomputeTotals(id int64) error {
	query := `
		UPDATE evaluations
		SET total_score = (
		        SELECT COALESCE(SUM(score), 0) FROM game_sessions WHERE evaluation_id = evaluations.id
		    ),
		    questions_answered = (
		        SELECT COALESCE(SUM(correct_answers + incorrect_answers), 0)
		        FROM game_sessions WHERE evaluation_id = evaluations.id
		    ),
		    total_time_seconds = (
		        SELECT COALESCE(SUM(time_seconds), 0) FROM game_sessions WHERE evaluation_id = evaluations.id
		    ),
		    average_precision = (
		        SELECT CASE
		            WHEN COALESCE(SUM(correct_answers + incorrect_answers), 0) > 0
		            THEN 100.0 * SUM(correct_answers) / SUM(correct_answers + incorrect_answers)
		            ELSE 0
		        END
		        FROM game_sessions WHERE evaluation_id = evaluations.id
		    )
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to recompute evaluation totals: %w", err)
	}
	return nil
}

// Complete marks the evaluation finished
func (r *EvaluationRepository) Complete(id int64) error {
	query := "UPDATE evaluations SET status = ?, completed_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, models.EvaluationCompleted, id); err != nil {
		return fmt.Errorf("failed to complete evaluation: %w", err)
	}
	return nil
}

// CountCompletedForChild returns how many evaluations a child has finished
func (r *EvaluationRepository) CountCompletedForChild(childID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM evaluations WHERE child_id = ? AND status = ?"
	err := r.db.QueryRow(query, childID, models.EvaluationCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return count, nil
}
