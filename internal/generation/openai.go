package generation

import (
	"context"
	"errors"

	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIClient sends the prompt as a single user message to an
// OpenAI-compatible chat completions endpoint (Ollama serves one under /v1).
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(cfg config.GenerationConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.URL),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := validateInput(prompt, c.model); err != nil {
		return "", err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", apperrors.NewServiceError(apiErr.StatusCode, truncate(apiErr.Message, maxErrorBody))
		}
		return "", apperrors.NewServiceUnavailable(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewMalformedResponse("completion has no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
