package response

import (
	"time"

	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/auth"
)

// UserResponse is the public view of a user. The password hash is never exposed.
type UserResponse struct {
	ID        model.UserID     `json:"id"`
	Username  string           `json:"username"`
	Nickname  string           `json:"nickname"`
	Bio       string           `json:"bio"`
	Role      model.SystemRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

// AuthResponse is returned on register and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ContestResponse wraps a contest with its phase at response time
type ContestResponse struct {
	*model.Contest
	Phase model.Phase `json:"phase"`
}

// ContestUpdateResponse is returned by PATCH /contests/{contestID}
type ContestUpdateResponse struct {
	Contest ContestResponse `json:"contest"`
	Warning string          `json:"warning,omitempty"`
}

// PermissionsResponse maps capability names to decisions
type PermissionsResponse struct {
	ContestID   model.ContestID           `json:"contest_id"`
	Permissions map[model.Capability]bool `json:"permissions"`
}

// StandingsResponse is the contest scoreboard
type StandingsResponse struct {
	ContestID model.ContestID      `json:"contest_id"`
	Rows      []model.StandingsRow `json:"rows"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	Storage     string `json:"storage"`
	Connections int    `json:"connections"`
	Topics      int    `json:"topics"`
}

// UserFromModel converts a model.User to a UserResponse
func UserFromModel(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Nickname:  u.Nickname,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponseFromSession converts an auth.Session to an AuthResponse
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      UserFromModel(&s.User),
	}
}

// ContestFromModel converts a model.Contest to a ContestResponse
func ContestFromModel(c *model.Contest, now time.Time) ContestResponse {
	return ContestResponse{Contest: c, Phase: c.PhaseAt(now)}
}

// StandingsFromRows builds a StandingsResponse. Rows is never null in JSON.
func StandingsFromRows(contestID model.ContestID, rows []model.StandingsRow) StandingsResponse {
	if rows == nil {
		rows = []model.StandingsRow{}
	}
	return StandingsResponse{ContestID: contestID, Rows: rows}
}
