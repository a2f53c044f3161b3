package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/judgecore/internal/broadcast"
	"github.com/mcoot/judgecore/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidTopic       = "INVALID_TOPIC"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotRoomMember      = "NOT_ROOM_MEMBER"
	CodeSubmissionClosed   = "SUBMISSION_CLOSED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeTeamNotFound       = "TEAM_NOT_FOUND"
	CodeContestNotFound    = "CONTEST_NOT_FOUND"
	CodeProblemNotFound    = "PROBLEM_NOT_FOUND"
	CodeRecordNotFound     = "RECORD_NOT_FOUND"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeAlreadyRegistered  = "ALREADY_REGISTERED"
	CodeAlreadyInRoom      = "ALREADY_IN_ROOM"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Specific sentinels are
// matched before the families they wrap.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Authentication
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrUnauthenticated):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, err.Error()}}

	// Authorization
	case errors.Is(err, model.ErrNotRoomMember):
		return &httpError{http.StatusForbidden, APIError{CodeNotRoomMember, "You are not in this room"}}
	case errors.Is(err, model.ErrSubmissionClosed):
		return &httpError{http.StatusForbidden, APIError{CodeSubmissionClosed, "Problem does not accept submissions"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, err.Error()}}

	// Lookups
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrTeamNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTeamNotFound, "Team not found"}}
	case errors.Is(err, model.ErrContestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeContestNotFound, "Contest not found"}}
	case errors.Is(err, model.ErrProblemNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProblemNotFound, "Problem not found"}}
	case errors.Is(err, model.ErrRecordNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRecordNotFound, "Record not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, err.Error()}}

	// Input
	case errors.Is(err, model.ErrValidationFailed):
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, err.Error()}}
	case errors.Is(err, broadcast.ErrInvalidTopic):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTopic, err.Error()}}

	// Conflicts
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrAlreadyRegistered):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyRegistered, "Already registered for this contest"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in this room"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInternalErrorRef creates an internal server error quoting the request id
// the caller can report. An empty id gives the plain error.
func NewInternalErrorRef(requestID string) error {
	if requestID == "" {
		return NewInternalError()
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error (request " + requestID + ")"}}
}
