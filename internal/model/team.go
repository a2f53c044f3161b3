package model

import "time"

// TeamID uniquely identifies a team
type TeamID string

// Team groups users and owns problems and contests
type Team struct {
	ID        TeamID    `json:"id"`
	Name      string    `json:"name"`
	Private   bool      `json:"private"`
	CreatedBy UserID    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamMember is a single (team, user) membership row
type TeamMember struct {
	TeamID TeamID   `json:"team_id"`
	UserID UserID   `json:"user_id"`
	Role   TeamRole `json:"role"`
}
