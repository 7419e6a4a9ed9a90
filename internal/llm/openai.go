package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient is a Completer backed by the OpenAI API.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient creates an OpenAI-backed Completer.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	client := openai.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{client: &client, model: model, maxTokens: cfg.MaxTokens}
}

// Complete runs one non-streamed completion. Requests carrying a Schema go
// through the Responses API with strict JSON output.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.Schema != nil {
		return c.completeStructured(ctx, req)
	}

	resp, err := c.client.Chat.Completions.New(ctx, c.chatParams(req))
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream runs a streamed chat completion.
func (c *OpenAIClient) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	tokens := make(chan string, 100)
	errc := make(chan error, 1)

	go func() {
		defer close(tokens)
		defer close(errc)

		stream := c.client.Chat.Completions.NewStreaming(ctx, c.chatParams(req))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			text := chunk.Choices[0].Delta.Content
			if text == "" {
				continue
			}
			select {
			case tokens <- text:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		if err := stream.Err(); err != nil {
			errc <- classifyOpenAI(err)
		}
	}()

	return tokens, errc
}

func (c *OpenAIClient) chatParams(req Request) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		} else {
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            msgs,
		MaxCompletionTokens: openai.Int(int64(maxTokens(req, c.maxTokens))),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	return params
}

func (c *OpenAIClient) completeStructured(ctx context.Context, req Request) (string, error) {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := responses.EasyInputMessageRoleUser
		if m.Role == RoleAssistant {
			role = responses.EasyInputMessageRoleAssistant
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, role))
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(int64(maxTokens(req, c.maxTokens))),
		Instructions:    openai.String(req.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        req.Schema.Name,
					Schema:      req.Schema.Definition,
					Strict:      openai.Bool(true),
					Description: openai.String(req.Schema.Description),
					Type:        "json_schema",
				},
			},
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", classifyOpenAI(err)
	}
	out := resp.OutputText()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func classifyOpenAI(err error) error {
	if err == nil || passthrough(err) {
		return err
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 && apiErr.Code == "insufficient_quota" {
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		return classifyStatus(apiErr.StatusCode, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
