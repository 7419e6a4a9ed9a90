package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBedrock struct {
	lastBody []byte
	output   []byte
	err      error
}

func (f *fakeBedrock) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastBody = in.Body
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.output}, nil
}

func (f *fakeBedrock) InvokeModelWithResponseStream(_ context.Context, in *bedrockruntime.InvokeModelWithResponseStreamInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelWithResponseStreamOutput, error) {
	f.lastBody = in.Body
	return nil, f.err
}

func TestBedrockClient_Complete(t *testing.T) {
	fake := &fakeBedrock{output: []byte(`{"content":[{"type":"text","text":"I'm with you."}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":4}}`)}
	c := newBedrockClient(fake, "anthropic.test", 256)

	out, err := c.Complete(context.Background(), Request{
		System:   "be present",
		Messages: []Message{{Role: RoleUser, Content: "rough day"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "I'm with you.", out)

	var body bedrockRequest
	require.NoError(t, json.Unmarshal(fake.lastBody, &body))
	assert.Equal(t, anthropicVersion, body.AnthropicVersion)
	assert.Equal(t, 256, body.MaxTokens)
	assert.Equal(t, "be present", body.System)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "rough day", body.Messages[0].Content[0].Text)
}

func TestBedrockClient_Complete_SchemaInInstruction(t *testing.T) {
	fake := &fakeBedrock{output: []byte(`{"content":[{"type":"text","text":"{}"}]}`)}
	c := newBedrockClient(fake, "anthropic.test", 0)

	type out struct {
		Summary string `json:"summary"`
	}
	_, err := c.Complete(context.Background(), Request{System: "summarize", Schema: SchemaFor[out]("s", "")})
	require.NoError(t, err)

	var body bedrockRequest
	require.NoError(t, json.Unmarshal(fake.lastBody, &body))
	assert.Contains(t, body.System, "Respond with a single JSON object")
	assert.Contains(t, body.System, `"summary"`)
	assert.Equal(t, defaultMaxTokens, body.MaxTokens)
}

func TestBedrockClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"throttled", &types.ThrottlingException{Message: strPtr("slow")}, ErrRateLimited},
		{"quota", &types.ServiceQuotaExceededException{Message: strPtr("limit")}, ErrQuotaExhausted},
		{"other", errors.New("socket closed"), ErrUpstream},
		{"cancelled", context.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newBedrockClient(&fakeBedrock{err: tt.err}, "m", 0)
			_, err := c.Complete(context.Background(), Request{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBedrockClient_Stream_InvokeError(t *testing.T) {
	c := newBedrockClient(&fakeBedrock{err: &types.ThrottlingException{Message: strPtr("slow")}}, "m", 0)

	tokens, errc := c.Stream(context.Background(), Request{})
	for range tokens {
	}
	assert.ErrorIs(t, <-errc, ErrRateLimited)
}

func TestDecodeStreamChunk(t *testing.T) {
	text, err := decodeStreamChunk([]byte(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hi"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Hi", text)

	text, err = decodeStreamChunk([]byte(`{"type":"message_start","message":{}}`))
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = decodeStreamChunk([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`))
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = decodeStreamChunk([]byte(`not json`))
	assert.ErrorIs(t, err, ErrUpstream)
}

func strPtr(s string) *string { return &s }
