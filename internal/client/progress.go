package client

import (
	"strings"
	"time"

	"github.com/math-practice/backend/internal/models"
)

const (
	// PointsPerCorrect is added to the score for each correct answer.
	PointsPerCorrect = 10

	// MaxHistory bounds the history log; older items are evicted.
	MaxHistory = 10
)

// HistoryItem snapshots one graded attempt as it was shown at the time.
type HistoryItem struct {
	ProblemText   string    `json:"problemText"`
	UserAnswer    float64   `json:"userAnswer"`
	CorrectAnswer float64   `json:"correctAnswer"`
	IsCorrect     bool      `json:"isCorrect"`
	Timestamp     time.Time `json:"timestamp"`
	Hint          string    `json:"hint,omitempty"`
	SolutionSteps []string  `json:"solutionSteps,omitempty"`
}

// Progress is the learner's durable state. Transitions are pure: every
// reducer returns a new value and leaves its receiver untouched.
type Progress struct {
	UserName     string
	Score        int
	Streak       int
	Difficulty   models.Difficulty
	ProblemType  models.ProblemType
	History      []HistoryItem // most recent first
	TutorialSeen bool
}

func NewProgress() Progress {
	return Progress{
		Difficulty:  models.DefaultDifficulty,
		ProblemType: models.DefaultProblemType,
	}
}

// ApplySubmission scores a verdict and records it at the front of the history.
func (p Progress) ApplySubmission(item HistoryItem) Progress {
	next := p
	if item.IsCorrect {
		next.Score += PointsPerCorrect
		next.Streak++
	} else {
		next.Streak = 0
	}

	n := len(p.History) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	history := make([]HistoryItem, 0, n)
	history = append(history, item)
	history = append(history, p.History[:n-1]...)
	next.History = history
	return next
}

// Reset clears score, streak and history. Name and settings survive.
func (p Progress) Reset() Progress {
	next := p
	next.Score = 0
	next.Streak = 0
	next.History = nil
	return next
}

// WithSettings replaces difficulty and problem type. Invalid values keep the
// current setting.
func (p Progress) WithSettings(d models.Difficulty, t models.ProblemType) Progress {
	next := p
	if d.Valid() {
		next.Difficulty = d
	}
	if t.Valid() {
		next.ProblemType = t
	}
	return next
}

func (p Progress) WithName(name string) Progress {
	next := p
	next.UserName = strings.TrimSpace(name)
	return next
}

func (p Progress) WithTutorialSeen() Progress {
	next := p
	next.TutorialSeen = true
	return next
}

// Accuracy returns the percentage of correct answers in the retained history.
func (p Progress) Accuracy() float64 {
	if len(p.History) == 0 {
		return 0
	}
	correct := 0
	for _, h := range p.History {
		if h.IsCorrect {
			correct++
		}
	}
	return float64(correct) * 100 / float64(len(p.History))
}
