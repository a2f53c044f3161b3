package model

import "time"

// ContestID uniquely identifies a contest
type ContestID string

// Contest is a timed set of problems owned by a team
type Contest struct {
	ID          ContestID   `json:"id"`
	TeamID      TeamID      `json:"team_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Private     bool        `json:"private"`
	BeginTime   time.Time   `json:"begin_time"`
	EndTime     time.Time   `json:"end_time"`
	Problems    []ProblemID `json:"problems"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PhaseAt returns the contest's phase at now
func (c *Contest) PhaseAt(now time.Time) Phase {
	return PhaseAt(c.BeginTime, c.EndTime, now)
}

// Participant is a single (contest, user) participation row
type Participant struct {
	ContestID ContestID   `json:"contest_id"`
	UserID    UserID      `json:"user_id"`
	Role      ContestRole `json:"role"`
}
