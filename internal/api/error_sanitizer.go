package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mendapp/mend/internal/llm"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/service/compose"
	"github.com/mendapp/mend/internal/service/pattern"
	"github.com/mendapp/mend/internal/service/preferences"
	"github.com/mendapp/mend/internal/service/reflection"
	"github.com/mendapp/mend/internal/service/signals"
)

// =============================================================================
// ERROR SANITIZER
// Internal errors (database details, provider payloads, user content) are
// never sent to API consumers. The full error is logged server-side.
// =============================================================================

// respondSafeError logs the internal error and sends a sanitized JSON error
// response to the client.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	if internalErr != nil {
		logger.Error("request failed", "status", code, "public", publicMsg, "error", internalErr)
	}
	respondError(w, code, publicMsg)
}

// respondServiceError maps service sentinels to a status and public message.
func respondServiceError(w http.ResponseWriter, err error) {
	code, msg := classifyError(err)
	if code >= 500 {
		respondSafeError(w, code, err, msg)
		return
	}
	respondError(w, code, msg)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, pattern.ErrUserRequired),
		errors.Is(err, signals.ErrUserRequired),
		errors.Is(err, preferences.ErrUserRequired):
		return http.StatusBadRequest, HeaderUserID + " header is required"
	case errors.Is(err, signals.ErrEmptyContent), errors.Is(err, compose.ErrNoUserMessage):
		return http.StatusBadRequest, "a user message is required"
	case errors.Is(err, preferences.ErrUnknownMode):
		return http.StatusBadRequest, "unknown companion mode"
	case errors.Is(err, reflection.ErrSessionRequired):
		return http.StatusBadRequest, HeaderSessionID + " header is required"
	case errors.Is(err, reflection.ErrNotFired):
		return http.StatusConflict, "no reflection to dismiss"
	case errors.Is(err, signals.ErrNoExtractor):
		return http.StatusServiceUnavailable, "signal analysis is not available"
	case errors.Is(err, llm.ErrRateLimited), errors.Is(err, llm.ErrQuotaExhausted),
		errors.Is(err, llm.ErrUpstream), errors.Is(err, llm.ErrEmptyResponse),
		errors.Is(err, signals.ErrBadExtraction):
		return llm.HTTPStatus(err), llm.PublicMessage(err)
	}
	return http.StatusInternalServerError, safeErrorMessage(err)
}

// safeErrorMessage maps common internal error patterns to public-safe messages.
func safeErrorMessage(internalErr error) string {
	if internalErr == nil {
		return "An internal error occurred"
	}
	if errors.Is(internalErr, context.DeadlineExceeded) {
		return "Request timed out"
	}

	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded"):
		return "Request timed out"

	case strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "pq:") ||
		strings.Contains(errStr, "query") ||
		strings.Contains(errStr, "scan") ||
		strings.Contains(errStr, "database"):
		return "A database error occurred"

	default:
		return "An internal error occurred"
	}
}
