// Package llm is the text-completion collaborator.
//
// A Completer turns a system instruction plus a short message history into
// text, either in one call (Complete) or as a token stream (Stream). Two
// backends exist: OpenAI (Chat Completions, plus the Responses API when a
// strict JSON schema is requested) and AWS Bedrock (Anthropic models via
// InvokeModel / InvokeModelWithResponseStream).
//
// Provider failures are classified into ErrRateLimited, ErrQuotaExhausted and
// ErrUpstream so callers can map them to user-facing copy without knowing
// which provider is configured.
package llm
