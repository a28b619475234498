package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float64
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY (or GOOGLE_API_KEY) is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model, temperature: temperature}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	temp := float32(c.temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 2048,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: userPrompt}},
	}}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini API: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("no text content in Gemini response")
	}

	resp := &LLMResponse{Content: text}
	if result.UsageMetadata != nil {
		resp.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
		resp.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return resp, nil
}
