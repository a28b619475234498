package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/math-practice/backend/internal/models"
)

var (
	ErrBusy              = errors.New("a request is already in flight")
	ErrNoName            = errors.New("a display name is required first")
	ErrNoActiveProblem   = errors.New("no active problem")
	ErrAlreadySubmitted  = errors.New("this problem has already been answered")
	ErrEmptyAnswer       = errors.New("answer is empty")
	ErrInvalidAnswer     = errors.New("answer is not a number")
	ErrInvalidSetting    = errors.New("invalid difficulty or problem type")
	ErrResetNotConfirmed = errors.New("reset must be confirmed")
)

type State int

const (
	StateNoName State = iota
	StateAwaitingProblem
	StateProblemActive
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateNoName:
		return "no-name"
	case StateAwaitingProblem:
		return "awaiting-problem"
	case StateProblemActive:
		return "problem-active"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Result is the server's verdict on the active problem.
type Result struct {
	UserAnswer    float64
	IsCorrect     bool
	FeedbackText  string
	CorrectAnswer float64
}

// ActiveProblem is the problem on screen. It is never persisted.
type ActiveProblem struct {
	SessionID     string
	ProblemText   string
	Hint          string
	SolutionSteps []string
	ShowHint      bool
	ShowSolution  bool
	Result        *Result // nil until answered
}

// Session drives one learner through generate, answer and review cycles.
// The lock guards state only; network calls run with it released and the
// busy flag rejects overlapping requests.
type Session struct {
	api     API
	storage Storage
	now     func() time.Time

	mu       sync.Mutex
	progress Progress
	active   *ActiveProblem
	busy     bool
}

// NewSession restores progress from storage.
func NewSession(api API, storage Storage) *Session {
	return &Session{
		api:      api,
		storage:  storage,
		now:      time.Now,
		progress: LoadProgress(storage),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.progress.UserName == "":
		return StateNoName
	case s.active == nil:
		return StateAwaitingProblem
	case s.active.Result == nil:
		return StateProblemActive
	default:
		return StateSubmitted
	}
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress
	p.History = append([]HistoryItem(nil), s.progress.History...)
	return p
}

// Active returns a copy of the active problem, or nil.
func (s *Session) Active() *ActiveProblem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	a := *s.active
	a.SolutionSteps = append([]string(nil), s.active.SolutionSteps...)
	if s.active.Result != nil {
		r := *s.active.Result
		a.Result = &r
	}
	return &a
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return ErrNoName
	}
	return s.commitLocked(s.progress.WithName(name))
}

func (s *Session) MarkTutorialSeen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(s.progress.WithTutorialSeen())
}

// ChangeSettings applies to the next generated problem only.
func (s *Session) ChangeSettings(d models.Difficulty, t models.ProblemType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	if !d.Valid() || !t.Valid() {
		return ErrInvalidSetting
	}
	return s.commitLocked(s.progress.WithSettings(d, t))
}

// NewProblem requests a problem with the current settings. On success it
// replaces any previous problem; on failure the previous state is kept.
func (s *Session) NewProblem(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.progress.UserName == "" {
		s.mu.Unlock()
		return ErrNoName
	}
	req := models.GenerateProblemRequest{
		Difficulty:  string(s.progress.Difficulty),
		ProblemType: string(s.progress.ProblemType),
	}
	s.busy = true
	s.mu.Unlock()

	resp, err := s.api.GenerateProblem(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return fmt.Errorf("generate problem: %w", err)
	}

	s.active = &ActiveProblem{
		SessionID:     resp.SessionID,
		ProblemText:   resp.ProblemText,
		Hint:          resp.Hint,
		SolutionSteps: resp.SolutionSteps,
	}
	return nil
}

// ParseAnswer converts typed input to a number.
func ParseAnswer(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrEmptyAnswer
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAnswer
	}
	return v, nil
}

// Submit sends the single answer allowed for the active problem. On success
// the verdict is scored, recorded and persisted; on failure the problem stays
// open for a retry.
func (s *Session) Submit(ctx context.Context, input string) (*Result, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.active == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveProblem
	}
	if s.active.Result != nil {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	answer, err := ParseAnswer(input)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	problem := s.active
	s.busy = true
	s.mu.Unlock()

	resp, err := s.api.SubmitAnswer(ctx, models.SubmitAnswerRequest{
		SessionID:  problem.SessionID,
		UserAnswer: &answer,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}

	result := &Result{
		UserAnswer:    answer,
		IsCorrect:     resp.IsCorrect,
		FeedbackText:  resp.FeedbackText,
		CorrectAnswer: resp.CorrectAnswer,
	}
	problem.Result = result

	s.progress = s.progress.ApplySubmission(HistoryItem{
		ProblemText:   problem.ProblemText,
		UserAnswer:    answer,
		CorrectAnswer: resp.CorrectAnswer,
		IsCorrect:     resp.IsCorrect,
		Timestamp:     s.now().UTC(),
		Hint:          problem.Hint,
		SolutionSteps: append([]string(nil), problem.SolutionSteps...),
	})
	// The verdict already happened server side, so memory keeps it even
	// when the save fails.
	if err := SaveProgress(s.storage, s.progress); err != nil {
		log.Printf("WARN: progress not saved: %v", err)
	}

	r := *result
	return &r, nil
}

// ToggleHint flips hint visibility. After a verdict the flag is frozen.
func (s *Session) ToggleHint() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return false, ErrNoActiveProblem
	}
	if s.active.Result != nil {
		return s.active.ShowHint, ErrAlreadySubmitted
	}
	s.active.ShowHint = !s.active.ShowHint
	return s.active.ShowHint, nil
}

// ToggleSolution flips solution visibility. After a verdict the flag is frozen.
func (s *Session) ToggleSolution() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return false, ErrNoActiveProblem
	}
	if s.active.Result != nil {
		return s.active.ShowSolution, ErrAlreadySubmitted
	}
	s.active.ShowSolution = !s.active.ShowSolution
	return s.active.ShowSolution, nil
}

// Reset clears score, streak and history and drops their stored entries.
func (s *Session) Reset(confirm bool) error {
	if !confirm {
		return ErrResetNotConfirmed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	if err := ClearProgress(s.storage); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	s.progress = s.progress.Reset()
	return nil
}

// commitLocked saves next and adopts it only if the save succeeds.
func (s *Session) commitLocked(next Progress) error {
	if err := SaveProgress(s.storage, next); err != nil {
		return err
	}
	s.progress = next
	return nil
}
