package model

import "time"

// ProblemID uniquely identifies a problem
type ProblemID string

// Problem is a task that accepts submissions
type Problem struct {
	ID          ProblemID `json:"id"`
	TeamID      TeamID    `json:"team_id"`
	Title       string    `json:"title"`
	Private     bool      `json:"private"`
	AllowSubmit bool      `json:"allow_submit"`
	CreatedAt   time.Time `json:"created_at"`
}
