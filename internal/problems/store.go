package problems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/math-practice/backend/internal/database"
	"github.com/math-practice/backend/internal/models"
)

type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// CreateSession inserts a new problem session. Ids and timestamps are
// assigned here so every dialect behaves the same.
func (s *Store) CreateSession(ctx context.Context, problemText string, correctAnswer float64) (*models.ProblemSession, error) {
	session := &models.ProblemSession{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		ProblemText:   problemText,
		CorrectAnswer: correctAnswer,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO math_problem_sessions (id, created_at, problem_text, correct_answer)
		 VALUES (?, ?, ?, ?)`,
		session.ID, session.CreatedAt, session.ProblemText, session.CorrectAnswer,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.ProblemSession, error) {
	var session models.ProblemSession
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, problem_text, correct_answer
		 FROM math_problem_sessions WHERE id = ?`,
		id,
	).Scan(&session.ID, &session.CreatedAt, &session.ProblemText, &session.CorrectAnswer)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (s *Store) CreateSubmission(ctx context.Context, sessionID string, userAnswer float64, isCorrect bool, feedback string) (*models.Submission, error) {
	sub := &models.Submission{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		UserAnswer:   userAnswer,
		IsCorrect:    isCorrect,
		FeedbackText: feedback,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO math_problem_submissions (id, session_id, user_answer, is_correct, feedback_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.SessionID, sub.UserAnswer, sub.IsCorrect, sub.FeedbackText, sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

func (s *Store) CountSubmissions(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM math_problem_submissions WHERE session_id = ?`,
		sessionID,
	).Scan(&n)
	return n, err
}

func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM math_problem_sessions`).Scan(&n)
	return n, err
}
