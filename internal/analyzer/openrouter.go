package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

type openRouterBackend struct {
	apiKey  string
	model   string
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

type OpenRouterRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenRouterResponse struct {
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

func NewOpenRouterBackend(apiKey, baseURL, model string, timeout time.Duration, logger *utils.Logger) Backend {
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &openRouterBackend{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (b *openRouterBackend) Complete(ctx context.Context, r Request) (string, error) {
	messages := make([]Message, 0, 2)
	if r.System != "" {
		messages = append(messages, Message{Role: "system", Content: r.System})
	}
	messages = append(messages, Message{Role: "user", Content: r.Prompt})

	reqBody := OpenRouterRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "legal-document-summarizer")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		b.logger.Error("OpenRouter API error", "status", resp.StatusCode, "model", b.model, "body", string(body))
		return "", fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode)
	}

	var openRouterResp OpenRouterResponse
	if err := json.Unmarshal(body, &openRouterResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if openRouterResp.Error != nil {
		return "", fmt.Errorf("OpenRouter API error: %s", openRouterResp.Error.Message)
	}

	if len(openRouterResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(openRouterResp.Choices[0].Message.Content), nil
}
