package models

import "time"

// Evaluation statuses
const (
	EvaluationPending    = "pending"
	EvaluationInProgress = "in_progress"
	EvaluationCompleted  = "completed"
)

// Evaluation is one assessment of a child: a chain of game sessions, one per
// minigame, played in a single sitting. AIEvaluation marks the short form
// where each minigame is truncated to its first level
type Evaluation struct {
	ID                int64
	ChildID           int64
	ProfessionalID    int64
	AIEvaluation      bool
	Status            string
	TotalScore        int
	QuestionsAnswered int
	TotalTimeSeconds  int
	AveragePrecision  float64
	SessionsTotal     int
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

// TotalTimeMinutes returns the accumulated play time in minutes
func (e *Evaluation) TotalTimeMinutes() float64 {
	return float64(e.TotalTimeSeconds) / 60.0
}
