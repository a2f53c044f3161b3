package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/judgecore/internal/testutil"
)

func TestLoggingRecordsRequest(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	entry, ok := logs.Find("http request")
	require.True(t, ok)
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/v1/teams", entry["path"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.EqualValues(t, 5, entry["size"])
}

func TestLoggingDefaultsToOK(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entry, ok := logs.Find("http request")
	require.True(t, ok)
	assert.EqualValues(t, http.StatusOK, entry["status"])
}

func TestResponseWriterUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &ResponseWriter{ResponseWriter: rec}

	assert.Same(t, rec, rw.Unwrap())

	// httptest.ResponseRecorder cannot be hijacked
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}

func TestRecovery(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()

	h := Recovery(logger, DefaultPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contests/c1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	entry, ok := logs.Find("panic recovered")
	require.True(t, ok)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "/api/v1/contests/c1", entry["path"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecoveryRepanicsAbort(t *testing.T) {
	h := Recovery(testutil.NopLogger(), DefaultPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
