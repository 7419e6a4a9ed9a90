package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	SetRedactPII(true)
	return logs
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactContent(t *testing.T) {
	assert.Equal(t, "", RedactContent(""))
	assert.Equal(t, "[redacted 5 chars]", RedactContent("hello"))
}

func TestInfo_RedactsUserContent(t *testing.T) {
	logs := observe(t)

	Info("turn received", "user_id", "u1", "content", "I feel awful about work", "count", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "u1", fields["user_id"])
	assert.Equal(t, "[redacted 23 chars]", fields["content"])
	assert.EqualValues(t, 3, fields["count"])
}

func TestWarn_RedactsEmbeddedEmails(t *testing.T) {
	logs := observe(t)

	Warn("lookup failed", "error", errors.New("no row for jane.doe@example.com"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "no row for ja***@example.com", entries[0].ContextMap()["error"])
}

func TestRedactionDisabled(t *testing.T) {
	logs := observe(t)
	SetRedactPII(false)
	defer SetRedactPII(true)

	Error("raw", "message", "keep me")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "keep me", logs.All()[0].ContextMap()["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARN"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}
