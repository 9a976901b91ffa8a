package models

import "time"

// Game session statuses
const (
	SessionPending    = "pending"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// GameSession is one minigame play-through within an evaluation. SessionURL
// is the random token clients address the session by; Position orders the
// sessions within the evaluation's chain
type GameSession struct {
	ID               int64
	EvaluationID     int64
	GameID           int64
	SessionURL       string
	Position         int
	Status           string
	Score            int
	CorrectAnswers   int
	IncorrectAnswers int
	TimeSeconds      int
	LevelsCompleted  int
	TotalClicks      int
	TotalHits        int
	TotalMisses      int
	Precision        float64
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

// SessionWithGame pairs a session with its game's catalog entry
type SessionWithGame struct {
	Session GameSession
	Game    Game
}
