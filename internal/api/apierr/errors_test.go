package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/judgecore/internal/broadcast"
	"github.com/mcoot/judgecore/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", fmt.Errorf("%w: view-record", model.ErrUnauthenticated), http.StatusUnauthorized, CodeUnauthorized},
		{"bad credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"forbidden", fmt.Errorf("%w: edit-contest", model.ErrForbidden), http.StatusForbidden, CodeForbidden},
		{"not in room", model.ErrNotRoomMember, http.StatusForbidden, CodeNotRoomMember},
		{"submission closed", model.ErrSubmissionClosed, http.StatusForbidden, CodeSubmissionClosed},
		{"contest missing", model.ErrContestNotFound, http.StatusNotFound, CodeContestNotFound},
		{"record missing", fmt.Errorf("loading: %w", model.ErrRecordNotFound), http.StatusNotFound, CodeRecordNotFound},
		{"validation", fmt.Errorf("%w: title required", model.ErrValidationFailed), http.StatusBadRequest, CodeValidationFailed},
		{"bad topic", broadcast.ErrInvalidTopic, http.StatusBadRequest, CodeInvalidTopic},
		{"username taken", model.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
		{"registered", model.ErrAlreadyRegistered, http.StatusConflict, CodeAlreadyRegistered},
		{"in room", model.ErrAlreadyInRoom, http.StatusConflict, CodeAlreadyInRoom},
		{"invalid request", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInternalErrorsDoNotLeakDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("redis: connection refused at 10.0.0.5"))
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}
