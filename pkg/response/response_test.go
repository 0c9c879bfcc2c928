package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]string{"id": "p1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.Timestamp.IsZero())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "Invalid request body", errors.New("unexpected EOF"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "unexpected EOF", body.Error)
	assert.Equal(t, "Invalid request body", body.Message)
}

func TestErrorCode(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorCode(rec, http.StatusNotFound, "LOAN_NOT_FOUND", "Loan with ID L1 not found")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LOAN_NOT_FOUND", body.Error)
}

func TestRecoveryMiddleware(t *testing.T) {
	var logs bytes.Buffer
	handler := RecoveryMiddleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestLoggingMiddleware(t *testing.T) {
	var logs bytes.Buffer
	handler := LoggingMiddleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "/health", entry["path"])
}
