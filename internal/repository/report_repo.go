package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"lexio/internal/database"
	"lexio/internal/models"
)

// ReportRepository handles database operations for AI screening reports
type ReportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert stores the evaluation's screening report, replacing a previous one.
// A re-finished evaluation regenerates its report; the latest wins
func (r *ReportRepository) Upsert(report *models.AIReport) error {
	existing, err := r.GetForEvaluation(report.EvaluationID)
	if err != nil {
		return err
	}
	if existing != nil {
		query := `
			UPDATE ai_reports
			SET risk_index = ?, risk_level = ?, classification = ?,
			    confidence = ?, recommendation = ?, simulated = ?
			WHERE evaluation_id = ?
		`
		_, err := r.db.Exec(query, report.RiskIndex, report.RiskLevel,
			report.Classification, report.Confidence, report.Recommendation,
			report.Simulated, report.EvaluationID)
		if err != nil {
			return fmt.Errorf("failed to update ai report: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO ai_reports (evaluation_id, risk_index, risk_level,
		                        classification, confidence, recommendation, simulated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, report.EvaluationID, report.RiskIndex,
		report.RiskLevel, report.Classification, report.Confidence,
		report.Recommendation, report.Simulated)
	if err != nil {
		return fmt.Errorf("failed to insert ai report: %w", err)
	}
	return nil
}

// GetForEvaluation retrieves an evaluation's screening report, or nil when
// none was generated yet
func (r *ReportRepository) GetForEvaluation(evaluationID int64) (*models.AIReport, error) {
	query := `
		SELECT id, evaluation_id, risk_index, risk_level, classification,
		       confidence, recommendation, simulated, created_at
		FROM ai_reports
		WHERE evaluation_id = ?
	`
	var report models.AIReport
	err := r.db.QueryRow(query, evaluationID).Scan(
		&report.ID, &report.EvaluationID, &report.RiskIndex, &report.RiskLevel,
		&report.Classification, &report.Confidence, &report.Recommendation,
		&report.Simulated, &report.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ai report: %w", err)
	}
	return &report, nil
}
