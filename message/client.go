// Package message obtains the rotating display message from a local
// language-model service and decides when it is due for a refresh. The
// provider is never allowed to fail the caller: every error degrades to a
// deterministic fallback phrase.
package message

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://127.0.0.1:11434"
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // generous for a one-line completion
)

// Provider produces a short natural-language string for a prompt. It exists
// as an interface so tests can inject a stub.
type Provider interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// APIError represents a non-success HTTP response from the model service.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model API error: %s", e.Status)
}

// generateRequest is the JSON body for POST /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// generateResponse is the JSON shape of a non-streaming completion.
type generateResponse struct {
	Response string `json:"response"`
}

// APIClient talks to an Ollama-compatible /api/generate endpoint.
type APIClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAPIClient creates an APIClient for the given endpoint and model. Empty
// baseURL falls back to the local default; a zero timeout falls back to 30
// seconds. If logger is nil, a no-op logger is used.
func NewAPIClient(baseURL, model string, timeout time.Duration, logger *slog.Logger) *APIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Generate requests a single non-streaming completion. The response is
// collapsed to one trimmed line; an empty completion is an error so the
// caller's fallback policy can kick in.
func (c *APIClient) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("requesting completion", "model", c.model, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing response JSON: %w", err)
	}

	text := strings.Join(strings.Fields(result.Response), " ")
	if text == "" {
		return "", fmt.Errorf("empty completion in response")
	}

	c.logger.Debug("received completion", "model", c.model, "chars", len(text))

	return text, nil
}

// Compile-time interface compliance check.
var _ Provider = (*APIClient)(nil)
