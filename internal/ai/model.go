// Package ai wraps the generative models used for semantic extraction.
package ai

import (
	"context"
	"fmt"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/pkg/errors"
)

const (
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultAnthropicModel = "claude-sonnet-4-5"
)

// Model generates a text completion for a prompt
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// New creates the model selected by cfg.AIProvider
func New(ctx context.Context, cfg *config.Config) (Model, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini:
		return NewGeminiModel(ctx, cfg.ProjectID, cfg.VertexAIRegion, modelOrDefault(cfg.AIModel, defaultGeminiModel))
	case config.ProviderAnthropic:
		return NewAnthropicModel(cfg.AnthropicAPIKey, modelOrDefault(cfg.AIModel, defaultAnthropicModel)), nil
	default:
		return nil, errors.NewConfiguration(fmt.Sprintf("unknown AI_PROVIDER %q", cfg.AIProvider), nil)
	}
}

func modelOrDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
