package models

import "time"

// Child represents a child evaluated through the platform
type Child struct {
	ID             int64
	ProfessionalID int64
	Name           string
	Age            int
	Grade          string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
