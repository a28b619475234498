package generator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/math-practice/backend/internal/config"
	"github.com/math-practice/backend/internal/models"
)

// LLMClient is the interface every model backend satisfies. Implementations
// make exactly one upstream call per Generate and never retry.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient with the problem and feedback flows.
type Generator struct {
	llm   LLMClient
	model string
}

// New wraps an existing client. model is informational only.
func New(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

// NewGenerator builds the configured backend.
func NewGenerator(ctx context.Context, cfg config.LLM) (*Generator, error) {
	var (
		llm   LLMClient
		model = cfg.Model
		err   error
	)

	switch cfg.Provider {
	case "gemini", "":
		if model == "" {
			model = defaultGeminiModel
		}
		llm, err = NewGeminiClient(ctx, cfg.GeminiAPIKey, model, cfg.Temperature)
	case "anthropic":
		if model == "" {
			model = defaultAnthropicModel
		}
		llm, err = NewAPIClient(cfg.AnthropicAPIKey, model, cfg.Temperature)
	case "openai":
		if model == "" {
			model = defaultOpenAIModel
		}
		llm, err = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model, cfg.Temperature)
	case "cli":
		llm = NewCLIClient(cfg.CLIPath)
		model = "claude-cli"
	case "mock":
		llm = NewMockClient()
		model = "mock"
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[generator] using %s (%s)", cfg.Provider, model)
	return &Generator{llm: llm, model: model}, nil
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateProblem makes one model call and decodes the reply. A decode
// failure wraps *GenerationParseError.
func (g *Generator) GenerateProblem(ctx context.Context, difficulty models.Difficulty, problemType models.ProblemType) (*GeneratedProblem, *LLMResponse, error) {
	userPrompt, err := BuildProblemPrompt(difficulty, problemType)
	if err != nil {
		return nil, nil, err
	}

	resp, err := g.llm.Generate(ctx, ProblemSystemPrompt(), userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate problem: %w", err)
	}

	problem, err := ParseProblem(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse problem response: %w", err)
	}

	return problem, resp, nil
}

// GenerateFeedback makes one model call for tutor feedback on a graded answer.
func (g *Generator) GenerateFeedback(ctx context.Context, in FeedbackInput) (string, error) {
	resp, err := g.llm.Generate(ctx, FeedbackSystemPrompt(), BuildFeedbackPrompt(in))
	if err != nil {
		return "", fmt.Errorf("generate feedback: %w", err)
	}

	text := strings.TrimSpace(stripCodeFences(resp.Content))
	if text == "" {
		return "", fmt.Errorf("generate feedback: empty response")
	}
	return text, nil
}

// ── APIClient — Anthropic SDK ─────────────────────────────

const defaultAnthropicModel = "claude-opus-4-5-20251101"

type APIClient struct {
	client      *anthropic.Client
	model       string
	temperature float64
}

func NewAPIClient(apiKey, model string, temperature float64) (*APIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &APIClient{client: &client, model: model, temperature: temperature}, nil
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
