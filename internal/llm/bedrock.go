package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/mendapp/mend/internal/pkg/logger"
)

const (
	defaultBedrockModel  = "anthropic.claude-3-haiku-20240307-v1:0"
	defaultBedrockRegion = "us-east-1"
	anthropicVersion     = "bedrock-2023-05-31"
)

// bedrockAPI is the subset of the Bedrock runtime client this package uses.
type bedrockAPI interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
	InvokeModelWithResponseStream(ctx context.Context, in *bedrockruntime.InvokeModelWithResponseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelWithResponseStreamOutput, error)
}

// BedrockClient is a Completer backed by Anthropic models on AWS Bedrock.
type BedrockClient struct {
	client    bedrockAPI
	modelID   string
	maxTokens int
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type bedrockStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewBedrockClient loads AWS configuration and creates a Bedrock-backed
// Completer. Static credentials are used when both keys are set; otherwise
// the default credential chain applies.
func NewBedrockClient(ctx context.Context, cfg Config) (*BedrockClient, error) {
	region := cfg.Region
	if region == "" {
		region = defaultBedrockRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries+1))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	modelID := cfg.Model
	if modelID == "" {
		modelID = defaultBedrockModel
	}

	logger.Info("bedrock completer initialized", "model", modelID, "region", region)
	return newBedrockClient(bedrockruntime.NewFromConfig(awsCfg), modelID, cfg.MaxTokens), nil
}

func newBedrockClient(api bedrockAPI, modelID string, maxTokens int) *BedrockClient {
	return &BedrockClient{client: api, modelID: modelID, maxTokens: maxTokens}
}

// Complete runs one InvokeModel call. A Schema is not sent natively; the
// definition is appended to the system instruction instead.
func (b *BedrockClient) Complete(ctx context.Context, req Request) (string, error) {
	body, err := b.requestBody(req)
	if err != nil {
		return "", err
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", classifyBedrock(err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", ErrUpstream, err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}

	logger.Debug("bedrock completion", "model", b.modelID,
		"input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	return sb.String(), nil
}

// Stream runs InvokeModelWithResponseStream and forwards text deltas.
func (b *BedrockClient) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	tokens := make(chan string, 100)
	errc := make(chan error, 1)

	go func() {
		defer close(tokens)
		defer close(errc)

		body, err := b.requestBody(req)
		if err != nil {
			errc <- err
			return
		}

		out, err := b.client.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
			ModelId:     aws.String(b.modelID),
			ContentType: aws.String("application/json"),
			Accept:      aws.String("application/json"),
			Body:        body,
		})
		if err != nil {
			errc <- classifyBedrock(err)
			return
		}

		stream := out.GetStream()
		defer stream.Close()

		for event := range stream.Events() {
			chunk, ok := event.(*types.ResponseStreamMemberChunk)
			if !ok {
				continue
			}
			text, err := decodeStreamChunk(chunk.Value.Bytes)
			if err != nil {
				errc <- err
				return
			}
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
			errc <- classifyBedrock(err)
		}
	}()

	return tokens, errc
}

func (b *BedrockClient) requestBody(req Request) ([]byte, error) {
	system := req.System
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		system += "\n\nRespond with a single JSON object matching this schema and nothing else:\n" + string(def)
	}

	msgs := make([]bedrockMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := string(RoleUser)
		if m.Role == RoleAssistant {
			role = string(RoleAssistant)
		}
		msgs = append(msgs, bedrockMessage{
			Role:    role,
			Content: []bedrockContentBlock{{Type: "text", Text: m.Content}},
		})
	}

	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens(req, b.maxTokens),
		System:           system,
		Messages:         msgs,
		Temperature:      req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return body, nil
}

// decodeStreamChunk extracts the text of a content_block_delta event. Other
// event types yield "".
func decodeStreamChunk(data []byte) (string, error) {
	var ev bedrockStreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", fmt.Errorf("%w: decode stream chunk: %v", ErrUpstream, err)
	}
	switch ev.Type {
	case "content_block_delta":
		if ev.Delta.Type == "text_delta" {
			return ev.Delta.Text, nil
		}
	case "error":
		if ev.Error.Type == "overloaded_error" {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, ev.Error.Message)
		}
		return "", fmt.Errorf("%w: %s", ErrUpstream, ev.Error.Message)
	}
	return "", nil
}

func classifyBedrock(err error) error {
	if err == nil || passthrough(err) {
		return err
	}

	var throttled *types.ThrottlingException
	if errors.As(err, &throttled) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	var quota *types.ServiceQuotaExceededException
	if errors.As(err, &quota) {
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ThrottlingException" {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
