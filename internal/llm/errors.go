package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited means the provider asked us to back off.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrQuotaExhausted means the account behind the provider is out of credit.
	ErrQuotaExhausted = errors.New("llm: quota exhausted")
	// ErrUpstream covers every other provider failure.
	ErrUpstream = errors.New("llm: upstream failure")
	// ErrEmptyResponse is returned when a completion finished without text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// classifyStatus wraps cause with the sentinel matching an HTTP status.
func classifyStatus(status int, cause error) error {
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, cause)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, cause)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, cause)
	}
}

// passthrough reports whether err is already classified or is a caller
// cancellation, both of which are returned unchanged.
func passthrough(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrQuotaExhausted) ||
		errors.Is(err, ErrUpstream)
}

// HTTPStatus maps a classified completion error to the status a handler
// should return.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrQuotaExhausted):
		return http.StatusPaymentRequired
	default:
		return http.StatusBadGateway
	}
}

// PublicMessage returns the copy shown to a user when a completion fails.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "I need a moment to catch my breath. Please try again in a few seconds."
	case errors.Is(err, ErrQuotaExhausted):
		return "The AI companion service needs attention. Please try again later."
	default:
		return "Something went wrong. Let's try again in a moment."
	}
}
