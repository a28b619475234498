package problems

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/math-practice/backend/internal/generator"
	"github.com/math-practice/backend/internal/models"
)

const defaultAITimeout = 30 * time.Second

type Service struct {
	store     *Store
	generator *generator.Generator
	aiTimeout time.Duration
}

func NewService(store *Store, gen *generator.Generator, aiTimeout time.Duration) *Service {
	if aiTimeout <= 0 {
		aiTimeout = defaultAITimeout
	}
	return &Service{store: store, generator: gen, aiTimeout: aiTimeout}
}

// Grade compares after numeric coercion only: 7 and 7.0 match, 0.1+0.2 and
// 0.3 do not.
func Grade(userAnswer, correctAnswer float64) bool {
	return userAnswer == correctAnswer
}

// GenerateProblem validates settings, calls the model once and stores the
// session. Nothing is written unless the reply decoded cleanly.
func (s *Service) GenerateProblem(ctx context.Context, req models.GenerateProblemRequest) (*models.GenerateProblemResponse, error) {
	difficulty, err := models.ParseDifficulty(strings.TrimSpace(req.Difficulty))
	if err != nil {
		return nil, &ValidationError{Message: "Invalid difficulty level"}
	}
	problemType, err := models.ParseProblemType(strings.TrimSpace(req.ProblemType))
	if err != nil {
		return nil, &ValidationError{Message: "Invalid problem type"}
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	problem, resp, err := s.generator.GenerateProblem(aiCtx, difficulty, problemType)
	cancel()
	if err != nil {
		return nil, &UpstreamError{Op: "generate problem", Err: err}
	}
	if resp != nil && resp.OutputTokens > 0 {
		log.Printf("[problems] generated %s/%s problem (tokens in=%d out=%d)",
			difficulty, problemType, resp.PromptTokens, resp.OutputTokens)
	}

	session, err := s.store.CreateSession(ctx, problem.ProblemText, problem.FinalAnswer)
	if err != nil {
		return nil, &PersistenceError{Op: "create session", Err: err}
	}

	return &models.GenerateProblemResponse{
		SessionID:     session.ID,
		ProblemText:   session.ProblemText,
		Hint:          problem.Hint,
		SolutionSteps: problem.SolutionSteps,
	}, nil
}

// SubmitAnswer runs lookup, grade, feedback and persist in that order. A
// submission row exists only if every step succeeded.
func (s *Service) SubmitAnswer(ctx context.Context, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" || req.UserAnswer == nil {
		return nil, &ValidationError{Message: "Missing session_id or user_answer"}
	}
	userAnswer := *req.UserAnswer

	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get session", Err: err}
	}

	isCorrect := Grade(userAnswer, session.CorrectAnswer)

	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	feedback, err := s.generator.GenerateFeedback(aiCtx, generator.FeedbackInput{
		ProblemText:   session.ProblemText,
		CorrectAnswer: session.CorrectAnswer,
		UserAnswer:    userAnswer,
		IsCorrect:     isCorrect,
	})
	cancel()
	if err != nil {
		return nil, &UpstreamError{Op: "generate feedback", Err: err}
	}

	sub, err := s.store.CreateSubmission(ctx, session.ID, userAnswer, isCorrect, feedback)
	if err != nil {
		return nil, &PersistenceError{Op: "create submission", Err: err}
	}

	return &models.SubmitAnswerResponse{
		IsCorrect:     sub.IsCorrect,
		FeedbackText:  sub.FeedbackText,
		CorrectAnswer: session.CorrectAnswer,
		SubmissionID:  sub.ID,
	}, nil
}

// describe renders an error chain for server logs.
func describe(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%v (timed out)", err)
	}
	return err.Error()
}
