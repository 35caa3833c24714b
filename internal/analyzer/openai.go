package analyzer

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type openAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend talks to any OpenAI-compatible chat completions API.
// An empty baseURL means api.openai.com.
func NewOpenAIBackend(apiKey, baseURL, model string, timeout time.Duration) Backend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

func (b *openAIBackend) Complete(ctx context.Context, r Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if r.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: r.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: r.Prompt})

	req := openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: r.Temperature,
	}
	// go-openai omits a zero temperature, which the API reads as 1.
	if req.Temperature == 0 {
		req.Temperature = math.SmallestNonzeroFloat32
	}
	if isReasoningModel(b.model) {
		req.MaxCompletionTokens = r.MaxTokens
	} else {
		req.MaxTokens = r.MaxTokens
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Reasoning models take MaxCompletionTokens instead of MaxTokens.
func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
