package models

import "time"

// Professional represents a specialist account (speech therapist, teacher or
// psychologist) who runs evaluations for their children
type Professional struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Specialty    string
	GoogleID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOAuthOnly reports whether the account signed up through Google and has no
// local password
func (p *Professional) IsOAuthOnly() bool {
	return p.GoogleID != "" && p.PasswordHash == ""
}
