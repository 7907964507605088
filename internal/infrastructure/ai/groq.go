// Package ai wraps the Groq chat-completion API behind a single-prompt
// interface so usecases can be tested without network access.
package ai

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"jobboard/internal/config"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Generator produces one completion for one prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GroqClient struct {
	model llms.Model
}

// NewGroqClient returns nil when no API key is configured; callers treat a
// nil generator as "feature unavailable".
func NewGroqClient(cfg config.AIConfig) (*GroqClient, error) {
	if cfg.GroqAPIKey == "" {
		return nil, nil
	}

	model, err := openai.New(
		openai.WithToken(cfg.GroqAPIKey),
		openai.WithModel(cfg.GroqModel),
		openai.WithBaseURL(groqBaseURL),
	)
	if err != nil {
		return nil, err
	}
	return &GroqClient{model: model}, nil
}

func (c *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.model == nil {
		return "", errors.New("ai: generator not configured")
	}
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(0.7),
	)
}
