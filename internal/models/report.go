package models

import "time"

// AIReport is the dyslexia screening generated when an evaluation
// completes, one per evaluation. RiskIndex is the screening probability on
// a 0-100 scale; Simulated marks reports from the heuristic fallback rather
// than a trained model
type AIReport struct {
	ID             int64
	EvaluationID   int64
	RiskIndex      float64
	RiskLevel      string
	Classification string
	Confidence     int
	Recommendation string
	Simulated      bool
	CreatedAt      time.Time
}
