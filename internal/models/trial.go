package models

import "time"

// CognitiveTrial is the per-question record behind an evaluation's analysis:
// one row per (session, question), accumulated as the learner submits
// answers. ConfusionType labels the dyslexia confusion pattern a wrong pick
// exposed
type CognitiveTrial struct {
	ID             int64
	SessionID      int64
	QuestionID     int
	Level          int
	Attempts       int
	IsCorrect      bool
	ResponseTimeMs int64
	PointsEarned   int
	SelectedOption string
	HintUsed       bool
	AudioReplays   int
	ConfusionType  string
	CreatedAt      time.Time
}
