package generator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient talks to OpenAI or any compatible server (OpenRouter, a local
// llama.cpp or Ollama endpoint) via BaseURL.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float64
}

func NewOpenAIClient(apiKey, baseURL, model string, temperature float64) (*OpenAIClient, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai API: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no text content in OpenAI response")
	}

	return &LLMResponse{
		Content:      resp.Choices[0].Message.Content,
		PromptTokens: resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
