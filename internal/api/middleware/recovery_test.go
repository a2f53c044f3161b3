package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/judgecore/internal/api/apierr"
	"github.com/mcoot/judgecore/internal/testutil"
)

func TestRecoveryLogsRouteAndQuotesRequestID(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(Recovery(logger))
	api.HandleFunc("/contests/{contestID}/participants/{userID}", func(http.ResponseWriter, *http.Request) {
		panic("nil board")
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/contests/c1/participants/u7", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeInternalError, body.Error.Code)
	assert.Contains(t, body.Error.Message, "req-42")

	entry, ok := logs.Find("panic recovered")
	require.True(t, ok)
	assert.Equal(t, "nil board", entry["error"])
	assert.Equal(t, "/api/v1/contests/{contestID}/participants/{userID}", entry["route"])
	assert.Equal(t, "c1", entry["contest_id"])
	assert.Equal(t, "u7", entry["user_id"])
	assert.Equal(t, "req-42", entry["request_id"])
}

func TestRecoveryWithoutRequestID(t *testing.T) {
	h := Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error.Message)
}

func TestLogKey(t *testing.T) {
	assert.Equal(t, "contest_id", logKey("contestID"))
	assert.Equal(t, "record_id", logKey("recordID"))
	assert.Equal(t, "ID", logKey("ID"))
	assert.Equal(t, "name", logKey("name"))
}
