package generation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/config"
)

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 512

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response *string `json:"response"`
}

// OllamaClient talks to Ollama's /api/generate in non-streaming mode.
type OllamaClient struct {
	httpClient *http.Client
	url        string
	model      string
}

func NewOllamaClient(cfg config.GenerationConfig) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:   cfg.URL,
		model: cfg.Model,
	}
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := validateInput(prompt, c.model); err != nil {
		return "", err
	}

	body, err := sonic.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewServiceUnavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewServiceUnavailable(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewServiceError(resp.StatusCode, truncate(strings.TrimSpace(string(raw)), maxErrorBody))
	}

	var out ollamaResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", apperrors.NewMalformedResponse("body is not valid JSON", err)
	}
	if out.Response == nil {
		return "", apperrors.NewMalformedResponse(`missing "response" field`, nil)
	}
	return *out.Response, nil
}

// truncate keeps at most n bytes of s without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
