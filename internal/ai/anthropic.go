package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"sjsage522/newsworker/pkg/errors"
)

const anthropicMaxTokens = 1024

// AnthropicModel calls the Anthropic Messages API
type AnthropicModel struct {
	client anthropic.Client
	model  string
}

// NewAnthropicModel creates a Messages API client
func NewAnthropicModel(apiKey, model string, opts ...option.RequestOption) *AnthropicModel {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicModel{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Generate sends prompt as a single user turn and joins the text blocks of the reply
func (m *AnthropicModel) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.NewAI("anthropic", "messages request failed", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Name returns the model identifier
func (m *AnthropicModel) Name() string {
	return m.model
}
