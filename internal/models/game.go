package models

import "time"

// Game represents one of the minigames in the catalog. Slug doubles as the
// name of the game's config file and as the URL segment learners play under
type Game struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Position    int
	Active      bool
	CreatedAt   time.Time
}
