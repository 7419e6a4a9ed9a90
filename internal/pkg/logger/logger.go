package logger

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var zapLevels = map[Level]zapcore.Level{
	DEBUG: zapcore.DebugLevel,
	INFO:  zapcore.InfoLevel,
	WARN:  zapcore.WarnLevel,
	ERROR: zapcore.ErrorLevel,
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Unknown
// values yield INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger provides structured JSON logging with optional PII redaction.
type Logger struct {
	mu        sync.RWMutex
	level     zap.AtomicLevel
	sugar     *zap.SugaredLogger
	redactPII bool
}

var defaultLogger = newDefault()

func newDefault() *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	z, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{level: level, sugar: z.Sugar(), redactPII: true}
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(l Level) { defaultLogger.level.SetLevel(zapLevels[l]) }

// SetRedactPII enables or disables PII redaction for the default logger.
func SetRedactPII(r bool) {
	defaultLogger.mu.Lock()
	defaultLogger.redactPII = r
	defaultLogger.mu.Unlock()
}

// Use replaces the zap core behind the default logger. Tests pass an
// observer core here; cmd/server never needs it.
func Use(z *zap.Logger) {
	defaultLogger.mu.Lock()
	defaultLogger.sugar = z.WithOptions(zap.AddCallerSkip(2)).Sugar()
	defaultLogger.mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	defaultLogger.mu.RLock()
	defer defaultLogger.mu.RUnlock()
	_ = defaultLogger.sugar.Sync()
}

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, fields ...interface{}) { defaultLogger.log(DEBUG, msg, fields...) }

// Info emits an INFO-level structured log entry.
func Info(msg string, fields ...interface{}) { defaultLogger.log(INFO, msg, fields...) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, fields ...interface{}) { defaultLogger.log(WARN, msg, fields...) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, fields ...interface{}) { defaultLogger.log(ERROR, msg, fields...) }

func (l *Logger) log(level Level, msg string, fields ...interface{}) {
	l.mu.RLock()
	sugar, redact := l.sugar, l.redactPII
	l.mu.RUnlock()

	kv := make([]interface{}, 0, len(fields))
	for i := 0; i < len(fields)-1; i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fields[i+1]
		if redact {
			val = redactField(key, val)
		}
		kv = append(kv, key, val)
	}

	switch level {
	case DEBUG:
		sugar.Debugw(msg, kv...)
	case WARN:
		sugar.Warnw(msg, kv...)
	case ERROR:
		sugar.Errorw(msg, kv...)
	default:
		sugar.Infow(msg, kv...)
	}
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// contentKeys carry raw user text and are never logged verbatim.
var contentKeys = []string{"content", "message", "text", "reply", "draft"}

func redactField(key string, val interface{}) interface{} {
	switch val.(type) {
	case int, int64, float64, bool, nil:
		return val
	case error:
		return redactPIIValue(key, val.(error).Error())
	}
	return redactPIIValue(key, fmt.Sprintf("%v", val))
}

func redactPIIValue(key, val string) string {
	key = strings.ToLower(key)
	if strings.Contains(key, "email") {
		return RedactEmail(val)
	}
	for _, k := range contentKeys {
		if key == k || strings.HasSuffix(key, "_"+k) {
			return RedactContent(val)
		}
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}
