package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// ── MockClient — Local Development ─────────────────────────

// MockClient returns canned problems and feedback so the server runs without
// model credentials.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var mockProblems = []string{
	`{"problem_text":"[Mock] A bakery sold 156 cupcakes in the morning and 234 cupcakes in the afternoon. How many cupcakes did it sell altogether?","final_answer":390,"hint":"Add the morning and afternoon sales.","solution_steps":["Step 1: 156 + 234 = 390"]}`,
	`{"problem_text":"[Mock] Mei Ling had $50. She spent $18.40 on books. How much money did she have left?","final_answer":31.6,"hint":"Take the amount spent away from what she started with.","solution_steps":["Step 1: $50 - $18.40 = $31.60"]}`,
	`{"problem_text":"[Mock] A box holds 24 pencils. How many pencils are there in 7 boxes?","final_answer":168,"hint":"Each box has the same number of pencils.","solution_steps":["Step 1: 24 x 7 = 168"]}`,
	`{"problem_text":"[Mock] 144 stickers are shared equally among 8 children. How many stickers does each child get?","final_answer":18,"hint":"Sharing equally means dividing.","solution_steps":["Step 1: 144 / 8 = 18"]}`,
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	if systemPrompt == FeedbackSystemPrompt() {
		text := "[Mock] Not quite. Look at the steps again and check each calculation carefully. You can do it!"
		if strings.Contains(userPrompt, "Result: CORRECT") {
			text = "[Mock] Well done! You worked through each step carefully and got the right answer."
		}
		return &LLMResponse{Content: text}, nil
	}

	return &LLMResponse{
		Content: "```json\n" + mockProblems[rand.IntN(len(mockProblems))] + "\n```",
	}, nil
}

// ── ScriptedClient — Tests ─────────────────────────────────

// ScriptedReply is one queued outcome for ScriptedClient.
type ScriptedReply struct {
	Content string
	Err     error
}

// ScriptedCall records the prompts a ScriptedClient received.
type ScriptedCall struct {
	SystemPrompt string
	UserPrompt   string
}

// ScriptedClient replays queued replies in order and records every call.
// It fails once the queue is empty.
type ScriptedClient struct {
	mu      sync.Mutex
	replies []ScriptedReply
	calls   []ScriptedCall
}

func NewScriptedClient(replies ...ScriptedReply) *ScriptedClient {
	return &ScriptedClient{replies: replies}
}

// Push appends replies to the queue.
func (s *ScriptedClient) Push(replies ...ScriptedReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

func (s *ScriptedClient) Calls() []ScriptedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScriptedCall, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *ScriptedClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, ScriptedCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if len(s.replies) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("scripted client: no reply queued")
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	s.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &LLMResponse{Content: next.Content}, nil
}
