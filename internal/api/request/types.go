package request

import "time"

// RegisterRequest is the body for POST /api/v1/auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// LoginRequest is the body for POST /api/v1/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the body for PATCH /api/v1/users/{userID}
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// SetRoleRequest is the body for role assignment endpoints
type SetRoleRequest struct {
	Role string `json:"role"`
}

// CreateTeamRequest is the body for POST /api/v1/teams
type CreateTeamRequest struct {
	Name    string `json:"name"`
	Private bool   `json:"private"`
}

// CreateProblemRequest is the body for POST /api/v1/teams/{teamID}/problems
type CreateProblemRequest struct {
	Title       string `json:"title"`
	Private     bool   `json:"private"`
	AllowSubmit bool   `json:"allow_submit"`
}

// CreateContestRequest is the body for POST /api/v1/teams/{teamID}/contests
type CreateContestRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	BeginTime   time.Time `json:"begin_time"`
	EndTime     time.Time `json:"end_time"`
	Problems    []string  `json:"problems"`
}

// UpdateContestRequest is the body for PATCH /api/v1/contests/{contestID}.
// Omitted fields are left unchanged.
type UpdateContestRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Private     *bool      `json:"private,omitempty"`
	BeginTime   *time.Time `json:"begin_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Problems    []string   `json:"problems,omitempty"`
}

// SubmitRequest is the body for POST /api/v1/problems/{problemID}/submissions
type SubmitRequest struct {
	ContestID string `json:"contest_id,omitempty"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// VerdictRequest is the body for PUT /api/v1/records/{recordID}/verdict
type VerdictRequest struct {
	Verdict  string `json:"verdict"`
	Score    int    `json:"score"`
	TimeMs   int    `json:"time_ms"`
	MemoryKB int    `json:"memory_kb"`
	Message  string `json:"message,omitempty"`
}

// CreateRoomRequest is the body for POST /api/v1/rooms
type CreateRoomRequest struct {
	Name    string `json:"name"`
	Private bool   `json:"private"`
}

// MessageRequest is the body for chat and private message endpoints
type MessageRequest struct {
	Content string `json:"content"`
}
