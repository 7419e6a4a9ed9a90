package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Role is the author of a message sent to the provider.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of provider input.
type Message struct {
	Role    Role
	Content string
}

// Schema asks the provider for output matching a strict JSON schema.
// Providers without native structured output fall back to the instruction.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]interface{}
}

// Request is a provider-neutral completion request.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	Schema      *Schema
}

// Completer produces text from a Request.
//
// Stream returns a token channel and an error channel. Both are closed when
// the stream ends; at most one error is sent. Cancelling ctx abandons the
// upstream stream.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (<-chan string, <-chan error)
}

// Config selects and configures a provider.
type Config struct {
	Provider   string // "openai" or "bedrock"
	Model      string
	APIKey     string
	BaseURL    string
	Region     string
	AccessKey  string
	SecretKey  string
	MaxRetries int
	MaxTokens  int
	Timeout    time.Duration
}

const defaultMaxTokens = 1024

// New builds the Completer named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAIClient(cfg), nil
	case "bedrock":
		return NewBedrockClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func maxTokens(req Request, fallback int) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if fallback > 0 {
		return fallback
	}
	return defaultMaxTokens
}

// StripFences removes a surrounding ```json ... ``` block from model output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
