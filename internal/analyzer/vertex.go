package analyzer

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const defaultVertexModel = "gemini-1.5-flash"

// VertexBackend runs completions on Gemini through Vertex AI. It must be
// closed when the process shuts down.
type VertexBackend struct {
	client *genai.Client
	model  string
}

func NewVertexBackend(ctx context.Context, projectID, region, model string) (*VertexBackend, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("vertex: projectID and region cannot be empty")
	}
	if model == "" {
		model = defaultVertexModel
	}

	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &VertexBackend{client: client, model: model}, nil
}

func (b *VertexBackend) Complete(ctx context.Context, r Request) (string, error) {
	// GenerativeModel carries per-call settings, so each call gets its own.
	model := b.client.GenerativeModel(b.model)
	model.SetTemperature(r.Temperature)
	if r.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(r.MaxTokens))
	}
	if r.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(r.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(r.Prompt))
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}
	return candidateText(resp)
}

// candidateText joins the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func (b *VertexBackend) Close() error {
	return b.client.Close()
}
