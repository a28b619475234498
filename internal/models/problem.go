package models

import (
	"fmt"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultDifficulty is used when a request omits the difficulty.
const DefaultDifficulty = DifficultyMedium

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// AllDifficulties lists the difficulties in display order.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return ValidDifficulties[d]
}

type ProblemType string

const (
	ProblemTypeMixed          ProblemType = "mixed"
	ProblemTypeAddition       ProblemType = "addition"
	ProblemTypeSubtraction    ProblemType = "subtraction"
	ProblemTypeMultiplication ProblemType = "multiplication"
	ProblemTypeDivision       ProblemType = "division"
)

// DefaultProblemType is used when a request omits the problem type.
const DefaultProblemType = ProblemTypeMixed

var ValidProblemTypes = map[ProblemType]bool{
	ProblemTypeMixed:          true,
	ProblemTypeAddition:       true,
	ProblemTypeSubtraction:    true,
	ProblemTypeMultiplication: true,
	ProblemTypeDivision:       true,
}

// AllProblemTypes lists the problem types in display order.
var AllProblemTypes = []ProblemType{
	ProblemTypeMixed,
	ProblemTypeAddition,
	ProblemTypeSubtraction,
	ProblemTypeMultiplication,
	ProblemTypeDivision,
}

func (t ProblemType) Valid() bool {
	return ValidProblemTypes[t]
}

// ParseDifficulty maps an empty string to the default and rejects anything
// outside the closed set.
func ParseDifficulty(s string) (Difficulty, error) {
	if s == "" {
		return DefaultDifficulty, nil
	}
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q", s)
	}
	return d, nil
}

// ParseProblemType maps an empty string to the default and rejects anything
// outside the closed set.
func ParseProblemType(s string) (ProblemType, error) {
	if s == "" {
		return DefaultProblemType, nil
	}
	t := ProblemType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid problem type %q", s)
	}
	return t, nil
}

// ── Core Structs ───────────────────────────────────────

// ProblemSession pairs a generated problem with its authoritative answer.
// Rows are written once and never updated.
type ProblemSession struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ProblemText   string    `json:"problem_text"`
	CorrectAnswer float64   `json:"correct_answer"`
}

// Submission records one learner attempt against a ProblemSession.
type Submission struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserAnswer   float64   `json:"user_answer"`
	IsCorrect    bool      `json:"is_correct"`
	FeedbackText string    `json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────

type GenerateProblemRequest struct {
	Difficulty  string `json:"difficulty,omitempty"`
	ProblemType string `json:"problemType,omitempty"`
}

type SubmitAnswerRequest struct {
	SessionID  string   `json:"session_id"`
	UserAnswer *float64 `json:"user_answer"`
}

// ── Response Types ────────────────────────────────────

// GenerateProblemResponse is the learner-facing view of a new session. The
// numeric answer is deliberately absent.
type GenerateProblemResponse struct {
	SessionID     string   `json:"session_id"`
	ProblemText   string   `json:"problem_text"`
	Hint          string   `json:"hint,omitempty"`
	SolutionSteps []string `json:"solution_steps,omitempty"`
}

type SubmitAnswerResponse struct {
	IsCorrect     bool    `json:"is_correct"`
	FeedbackText  string  `json:"feedback_text"`
	CorrectAnswer float64 `json:"correct_answer"`
	SubmissionID  string  `json:"submission_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
