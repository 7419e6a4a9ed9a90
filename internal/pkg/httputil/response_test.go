package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestErrorCode(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorCode(rec, http.StatusTooManyRequests, "rate_limited", "slow down")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body.Code)
	assert.Equal(t, "slow down", body.Error)
}

func TestDecode_Invalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

	var dst map[string]any
	assert.False(t, Decode(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventStream_Send(t *testing.T) {
	rec := httptest.NewRecorder()
	stream, err := NewEventStream(rec)
	require.NoError(t, err)

	require.NoError(t, stream.Send("token", map[string]string{"text": "hi"}))
	require.NoError(t, stream.Send("done", struct{}{}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: token\ndata: {\"text\":\"hi\"}\n\nevent: done\ndata: {}\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
