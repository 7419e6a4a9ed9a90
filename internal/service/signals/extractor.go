package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/llm"
)

// Extractor asks the completion service to read one message.
type Extractor struct {
	completer llm.Completer
	schema    *llm.Schema
}

// NewExtractor creates an Extractor using completer.
func NewExtractor(completer llm.Completer) *Extractor {
	return &Extractor{
		completer: completer,
		schema:    llm.SchemaFor[RawExtraction]("emotional_signal", "Non-clinical emotional reading of one message"),
	}
}

// Extract returns the raw reading of content. The result still needs
// Normalize.
func (e *Extractor) Extract(ctx context.Context, content string) (RawExtraction, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return RawExtraction{}, ErrEmptyContent
	}

	out, err := e.completer.Complete(ctx, llm.Request{
		System:      extractionPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: content}},
		MaxTokens:   200,
		Temperature: 0.1,
		Schema:      e.schema,
	})
	if err != nil {
		return RawExtraction{}, fmt.Errorf("extract signal: %w", err)
	}

	var raw RawExtraction
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &raw); err != nil {
		return RawExtraction{}, fmt.Errorf("%w: %v", ErrBadExtraction, err)
	}
	return raw, nil
}

func joinVocab[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

var extractionPrompt = `You read one message from a personal reflection app and describe its emotional tone.

Rules:
- Never use clinical or diagnostic language. Do not use words such as depression, anxiety disorder, trauma, PTSD, bipolar, ADHD, OCD, panic disorder, clinical, diagnosis, disorder, syndrome or condition.
- Use only the allowed values below.
- If the message mentions self-harm, suicide or wanting to die, use primary_emotion "distressed" and context "safety".
- safe_summary is a gentle, non-identifying summary of at most 8 words.
- confidence is a number between 0 and 1.
- secondary_emotion is an empty string when there is none.
- Respond with JSON only.

Allowed primary_emotion and secondary_emotion values: ` + joinVocab(domain.Emotions) + `
Allowed intensity values: ` + joinVocab(domain.Intensities) + `
Allowed context values: ` + joinVocab(domain.Contexts) + `
Allowed time_bucket values: ` + joinVocab(domain.TimeBuckets)
