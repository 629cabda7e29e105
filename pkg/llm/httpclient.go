package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// NewHTTPFunc returns a Func that calls an OpenAI-compatible chat
// completions endpoint, the concrete adapter custom.transform calls
// through Model's BaseURL/APIKeyEnv/Name fields. Standard library
// net/http/encoding/json only — justified: no pack example wires any
// model-provider SDK (OpenAI, Anthropic, etc.), and the wire shape this
// adapter needs is a single, narrow POST-and-decode a generic http.Client
// already does without a dedicated client library.
func NewHTTPFunc(client *http.Client) Func {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return func(ctx context.Context, model Model, prompt string) (string, error) {
		return callChatCompletion(ctx, client, model, prompt)
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callChatCompletion(ctx context.Context, client *http.Client, model Model, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:               model.Name,
		Messages:            []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:           model.MaxTokens,
		MaxCompletionTokens: model.MaxCompletionTokens,
		Temperature:         model.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	url := model.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if model.APIKeyEnv != "" {
		if key := os.Getenv(model.APIKeyEnv); key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request %s: %w", model.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("llm: %s: %s", model.Name, parsed.Error.Message)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm: %s: unexpected status %d", model.Name, resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: %s: empty response", model.Name)
	}
	return parsed.Choices[0].Message.Content, nil
}
