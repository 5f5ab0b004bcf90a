// Package gemini adapts the Google GenAI API to the sentiment provider
// interface.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gemini-2.5-flash"

// Config holds API parameters for the provider.
type Config struct {
	APIKey string
	Model  string
}

// Provider generates market commentary through the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewProvider creates a Provider and validates the API key is present.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Provider{client: client, model: model, logger: logger}, nil
}

// Generate sends the prompt and returns the model's text response. An empty
// response is an error so callers fall back to canned commentary.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// Compile-time interface check.
var _ domain.SentimentProvider = (*Provider)(nil)
