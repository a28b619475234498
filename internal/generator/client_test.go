package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/math-practice/backend/internal/config"
	"github.com/math-practice/backend/internal/models"
)

func TestGenerateProblem_SingleCall(t *testing.T) {
	llm := NewScriptedClient(ScriptedReply{Content: validProblemJSON})
	g := New(llm, "scripted")

	p, _, err := g.GenerateProblem(context.Background(), models.DifficultyHard, models.ProblemTypeDivision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FinalAnswer != 975 {
		t.Errorf("expected 975, got %v", p.FinalAnswer)
	}

	calls := llm.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(calls))
	}
	if calls[0].SystemPrompt != ProblemSystemPrompt() {
		t.Error("expected problem system prompt")
	}
	if !strings.Contains(calls[0].UserPrompt, "HARD") || !strings.Contains(calls[0].UserPrompt, "division") {
		t.Errorf("user prompt missing settings: %s", calls[0].UserPrompt)
	}
}

func TestGenerateProblem_ParseFailureNotRetried(t *testing.T) {
	llm := NewScriptedClient(
		ScriptedReply{Content: "not json"},
		ScriptedReply{Content: validProblemJSON},
	)
	g := New(llm, "scripted")

	_, _, err := g.GenerateProblem(context.Background(), models.DifficultyEasy, models.ProblemTypeMixed)
	var pe *GenerationParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *GenerationParseError, got %v", err)
	}
	if n := len(llm.Calls()); n != 1 {
		t.Errorf("expected one call, got %d", n)
	}
}

func TestGenerateProblem_InvalidSettingsSkipCall(t *testing.T) {
	llm := NewScriptedClient()
	g := New(llm, "scripted")

	if _, _, err := g.GenerateProblem(context.Background(), "extreme", models.ProblemTypeMixed); err == nil {
		t.Fatal("expected error")
	}
	if n := len(llm.Calls()); n != 0 {
		t.Errorf("expected no model call, got %d", n)
	}
}

func TestGenerateFeedback(t *testing.T) {
	llm := NewScriptedClient(
		ScriptedReply{Content: "  Great job!  "},
		ScriptedReply{Content: "   "},
		ScriptedReply{Err: errors.New("upstream down")},
	)
	g := New(llm, "scripted")
	in := FeedbackInput{ProblemText: "2+2", CorrectAnswer: 4, UserAnswer: 4, IsCorrect: true}

	text, err := g.GenerateFeedback(context.Background(), in)
	if err != nil || text != "Great job!" {
		t.Fatalf("got %q, %v", text, err)
	}

	if _, err := g.GenerateFeedback(context.Background(), in); err == nil {
		t.Error("expected error for empty feedback")
	}
	if _, err := g.GenerateFeedback(context.Background(), in); err == nil {
		t.Error("expected upstream error")
	}

	if llm.Calls()[0].SystemPrompt != FeedbackSystemPrompt() {
		t.Error("expected feedback system prompt")
	}
}

func TestMockClient(t *testing.T) {
	g := New(NewMockClient(), "mock")

	p, _, err := g.GenerateProblem(context.Background(), models.DifficultyMedium, models.ProblemTypeMixed)
	if err != nil {
		t.Fatalf("mock problem should parse: %v", err)
	}
	if !strings.HasPrefix(p.ProblemText, "[Mock]") {
		t.Errorf("unexpected mock text %q", p.ProblemText)
	}

	text, err := g.GenerateFeedback(context.Background(), FeedbackInput{IsCorrect: true})
	if err != nil || !strings.Contains(text, "Well done") {
		t.Errorf("got %q, %v", text, err)
	}
}

func TestNewGenerator_Providers(t *testing.T) {
	ctx := context.Background()

	g, err := NewGenerator(ctx, config.LLM{Provider: "mock"})
	if err != nil || g.ModelName() != "mock" {
		t.Fatalf("mock provider: %v", err)
	}

	if _, err := NewGenerator(ctx, config.LLM{Provider: "anthropic"}); err == nil {
		t.Error("expected missing key error for anthropic")
	}
	if _, err := NewGenerator(ctx, config.LLM{Provider: "gemini"}); err == nil {
		t.Error("expected missing key error for gemini")
	}
	if _, err := NewGenerator(ctx, config.LLM{Provider: "openai"}); err == nil {
		t.Error("expected missing key error for openai")
	}
	if _, err := NewGenerator(ctx, config.LLM{Provider: "parrot"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	g, err = NewGenerator(ctx, config.LLM{Provider: "openai", OpenAIBaseURL: "http://localhost:11434/v1", Model: "llama3"})
	if err != nil || g.ModelName() != "llama3" {
		t.Errorf("openai-compatible provider: %v", err)
	}
}
