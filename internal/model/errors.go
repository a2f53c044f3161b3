package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")

	// Input errors
	ErrValidationFailed = errors.New("validation failed")

	// Lookup errors
	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTeamNotFound    = fmt.Errorf("team %w", ErrNotFound)
	ErrContestNotFound = fmt.Errorf("contest %w", ErrNotFound)
	ErrProblemNotFound = fmt.Errorf("problem %w", ErrNotFound)
	ErrRecordNotFound  = fmt.Errorf("record %w", ErrNotFound)
	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)

	// Account errors
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Domain refusals
	ErrNotRoomMember     = fmt.Errorf("%w: you are not in this room", ErrForbidden)
	ErrSubmissionClosed  = fmt.Errorf("%w: problem does not accept submissions", ErrForbidden)
	ErrAlreadyRegistered = errors.New("already registered for contest")
	ErrAlreadyInRoom     = errors.New("already in room")
)
