package models

import (
	"testing"
	"time"
)

func TestEvaluationTotalTimeMinutes(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    float64
	}{
		{"zero time", 0, 0},
		{"half a minute", 30, 0.5},
		{"several minutes", 390, 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Evaluation{TotalTimeSeconds: tt.seconds}
			if got := e.TotalTimeMinutes(); got != tt.want {
				t.Errorf("TotalTimeMinutes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfessionalIsOAuthOnly(t *testing.T) {
	tests := []struct {
		name string
		p    Professional
		want bool
	}{
		{
			name: "google account without password",
			p:    Professional{GoogleID: "g-123"},
			want: true,
		},
		{
			name: "google account with local password",
			p:    Professional{GoogleID: "g-123", PasswordHash: "$2a$10$abc"},
			want: false,
		},
		{
			name: "local account",
			p:    Professional{PasswordHash: "$2a$10$abc", CreatedAt: time.Now()},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsOAuthOnly(); got != tt.want {
				t.Errorf("IsOAuthOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}
