// Package analyzer is the gateway to the language models. Two capabilities
// are exposed: a deterministic summarizer and a sampling instruction
// follower. Both run on top of a Backend that speaks to a provider.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

const (
	// SummaryInputLength is the summarizer's own cut, applied on top of the
	// prompt excerpt.
	SummaryInputLength = 1024
	SummaryMinTokens   = 80
	SummaryMaxTokens   = 250

	DefaultMaxLength   = 512
	DefaultTemperature = 0.7
)

var summaryInstruction = fmt.Sprintf(
	"Summarize the following text. Write between %d and %d tokens. Reply with the summary only.",
	SummaryMinTokens, SummaryMaxTokens,
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Backend performs one completion against a model provider.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

// SummaryModel is the summarization-tuned capability.
type SummaryModel struct {
	backend Backend
	logger  *utils.Logger
}

func NewSummaryModel(backend Backend, logger *utils.Logger) *SummaryModel {
	return &SummaryModel{backend: backend, logger: logger}
}

// Summarize cuts text to SummaryInputLength characters and decodes greedily.
func (m *SummaryModel) Summarize(ctx context.Context, text string) (string, error) {
	start := time.Now()
	input := utils.Truncate(text, SummaryInputLength)

	out, err := m.backend.Complete(ctx, Request{
		System:      summaryInstruction,
		Prompt:      input,
		MaxTokens:   SummaryMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	m.logger.Debug("Summary generated",
		"input_length", len(input),
		"output_length", len(out),
		"elapsed_ms", time.Since(start).Milliseconds())

	return out, nil
}

// InstructionModel is the instruction-following capability. Decoding samples
// at the configured temperature.
type InstructionModel struct {
	backend     Backend
	temperature float32
	logger      *utils.Logger
}

func NewInstructionModel(backend Backend, temperature float32, logger *utils.Logger) *InstructionModel {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &InstructionModel{backend: backend, temperature: temperature, logger: logger}
}

// Generate completes prompt with at most maxLength output tokens. A
// non-positive maxLength means DefaultMaxLength.
func (m *InstructionModel) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	start := time.Now()

	out, err := m.backend.Complete(ctx, Request{
		Prompt:      prompt,
		MaxTokens:   maxLength,
		Temperature: m.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	m.logger.Debug("Text generated",
		"prompt_length", len(prompt),
		"max_length", maxLength,
		"output_length", len(out),
		"elapsed_ms", time.Since(start).Milliseconds())

	return out, nil
}

// Gateway bundles both capabilities.
type Gateway struct {
	*SummaryModel
	*InstructionModel
}

func NewGateway(summary, instruction Backend, temperature float32, logger *utils.Logger) *Gateway {
	return &Gateway{
		SummaryModel:     NewSummaryModel(summary, logger),
		InstructionModel: NewInstructionModel(instruction, temperature, logger),
	}
}
