package models

import "time"

// Difficulty values accepted for a log entry.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Status values accepted for a log entry.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// LogEntry is one practice problem in a user's log.
type LogEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ProblemName string    `json:"problemName"`
	ProblemLink string    `json:"problemLink,omitempty"`
	Topics      []string  `json:"topic"`
	Difficulty  string    `json:"difficulty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
