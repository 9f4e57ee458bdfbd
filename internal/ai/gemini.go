package ai

import (
	"context"

	"google.golang.org/genai"

	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/pkg/errors"
)

// permissiveSafety turns every content filter off; card markup is news copy
// and a blocked response would only lose the row.
var permissiveSafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

// GeminiModel calls Gemini through the Vertex AI backend
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Vertex AI client for project in location
func NewGeminiModel(ctx context.Context, project, location, model string) (*GeminiModel, error) {
	log := logger.ForComponent("ai")
	log.Info().
		Str("project", project).
		Str("region", location).
		Str("model", model).
		Msg("Initializing Vertex AI")

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, errors.NewAI("gemini", "failed to create Vertex AI client; check that the API is enabled and credentials are valid", err)
	}

	return &GeminiModel{client: client, model: model}, nil
}

// Generate sends prompt with all safety filters at BLOCK_NONE
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SafetySettings: permissiveSafety,
	})
	if err != nil {
		return "", errors.NewAI("gemini", "generate content failed", err)
	}
	return resp.Text(), nil
}

// Name returns the model identifier
func (m *GeminiModel) Name() string {
	return m.model
}
