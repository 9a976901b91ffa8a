// Package statestore keeps the live running state of in-progress game
// sessions: the totals a session has accumulated so far, keyed by its session
// URL. The database stays the system of record; this store only serves the
// monitoring view a professional watches while a child plays.
package statestore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no live state exists for a session URL.
var ErrNotFound = errors.New("no live state for session")

// LiveState is a session's running totals, refreshed as reports arrive.
type LiveState struct {
	SessionURL        string    `json:"session_url"`
	Level             int       `json:"level"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	Score             int       `json:"score"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Store persists live session state. Entries expire on their own once a
// session stops reporting.
type Store interface {
	Put(ctx context.Context, state LiveState) error
	Get(ctx context.Context, sessionURL string) (*LiveState, error)
	Delete(ctx context.Context, sessionURL string) error
}
