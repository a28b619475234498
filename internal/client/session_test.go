package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/math-practice/backend/internal/models"
)

// fakeAPI serves canned problems and grades against a fixed answer.
type fakeAPI struct {
	mu          sync.Mutex
	answer      float64
	generateErr error
	submitErr   error
	generated   []models.GenerateProblemRequest
	submitted   []models.SubmitAnswerRequest

	// gate, when set, blocks calls until closed.
	gate chan struct{}
}

func (f *fakeAPI) wait(ctx context.Context) error {
	if f.gate == nil {
		return nil
	}
	select {
	case <-f.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAPI) GenerateProblem(ctx context.Context, req models.GenerateProblemRequest) (*models.GenerateProblemResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generated = append(f.generated, req)
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &models.GenerateProblemResponse{
		SessionID:     "s-" + string(rune('a'+len(f.generated))),
		ProblemText:   "What is 3 + 4?",
		Hint:          "Count on from 3.",
		SolutionSteps: []string{"3 + 4 = 7"},
	}, nil
}

func (f *fakeAPI) SubmitAnswer(ctx context.Context, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, req)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	ok := *req.UserAnswer == f.answer
	return &models.SubmitAnswerResponse{
		IsCorrect:     ok,
		FeedbackText:  "feedback",
		CorrectAnswer: f.answer,
		SubmissionID:  "sub",
	}, nil
}

func namedSession(t *testing.T, api *fakeAPI) (*Session, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	s := NewSession(api, storage)
	require.NoError(t, s.SetName("Ada"))
	return s, storage
}

func TestSession_NameGate(t *testing.T) {
	s := NewSession(&fakeAPI{answer: 7}, NewMemoryStorage())
	assert.Equal(t, StateNoName, s.State())

	assert.ErrorIs(t, s.NewProblem(context.Background()), ErrNoName)
	assert.ErrorIs(t, s.SetName("   "), ErrNoName)

	require.NoError(t, s.SetName("Ada"))
	assert.Equal(t, StateAwaitingProblem, s.State())
}

func TestSession_FullCycle(t *testing.T) {
	api := &fakeAPI{answer: 7}
	s, storage := namedSession(t, api)
	ctx := context.Background()

	require.NoError(t, s.NewProblem(ctx))
	assert.Equal(t, StateProblemActive, s.State())

	show, err := s.ToggleHint()
	require.NoError(t, err)
	assert.True(t, show)

	res, err := s.Submit(ctx, " 7.0 ")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, StateSubmitted, s.State())

	p := s.Progress()
	assert.Equal(t, 10, p.Score)
	assert.Equal(t, 1, p.Streak)
	require.Len(t, p.History, 1)
	assert.Equal(t, "What is 3 + 4?", p.History[0].ProblemText)
	assert.Equal(t, "Count on from 3.", p.History[0].Hint)
	assert.Equal(t, 7.0, p.History[0].CorrectAnswer)

	// Persisted immediately.
	assert.Equal(t, 10, LoadProgress(storage).Score)

	// Answered problems are frozen.
	_, err = s.Submit(ctx, "7")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	show, err = s.ToggleHint()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.True(t, show, "hint flag keeps its last value")
	_, err = s.ToggleSolution()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// Next problem clears the old flags.
	require.NoError(t, s.NewProblem(ctx))
	a := s.Active()
	assert.False(t, a.ShowHint)
	assert.Nil(t, a.Result)

	res, err = s.Submit(ctx, "8")
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 7.0, res.CorrectAnswer)
	p = s.Progress()
	assert.Equal(t, 10, p.Score)
	assert.Equal(t, 0, p.Streak)
	assert.Len(t, p.History, 2)
	assert.False(t, p.History[0].IsCorrect, "most recent first")
}

func TestSession_SubmitValidation(t *testing.T) {
	api := &fakeAPI{answer: 7}
	s, _ := namedSession(t, api)
	ctx := context.Background()

	_, err := s.Submit(ctx, "7")
	assert.ErrorIs(t, err, ErrNoActiveProblem)

	require.NoError(t, s.NewProblem(ctx))
	_, err = s.Submit(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	_, err = s.Submit(ctx, "seven")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	_, err = s.Submit(ctx, "NaN")
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	assert.Empty(t, api.submitted)
	assert.Equal(t, StateProblemActive, s.State())
}

func TestSession_GenerateFailureKeepsState(t *testing.T) {
	api := &fakeAPI{answer: 7}
	s, _ := namedSession(t, api)
	ctx := context.Background()

	require.NoError(t, s.NewProblem(ctx))
	before := s.Active()

	api.generateErr = &APIError{Status: 500, Message: "Failed to generate problem"}
	err := s.NewProblem(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	assert.Equal(t, before.SessionID, s.Active().SessionID)
	assert.Equal(t, StateProblemActive, s.State())
	assert.False(t, s.Busy())
}

func TestSession_SubmitFailureAllowsRetry(t *testing.T) {
	api := &fakeAPI{answer: 7, submitErr: errors.New("connection refused")}
	s, _ := namedSession(t, api)
	ctx := context.Background()
	require.NoError(t, s.NewProblem(ctx))

	_, err := s.Submit(ctx, "7")
	require.Error(t, err)
	assert.Equal(t, StateProblemActive, s.State())
	assert.Equal(t, 0, s.Progress().Score)
	assert.False(t, s.Busy())

	api.submitErr = nil
	res, err := s.Submit(ctx, "7")
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
}

func TestSession_BusyRejectsOverlap(t *testing.T) {
	api := &fakeAPI{answer: 7, gate: make(chan struct{})}
	s, _ := namedSession(t, api)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.NewProblem(ctx) }()

	require.Eventually(t, s.Busy, time.Second, time.Millisecond)

	assert.ErrorIs(t, s.NewProblem(ctx), ErrBusy)
	assert.ErrorIs(t, s.ChangeSettings(models.DifficultyHard, models.ProblemTypeMixed), ErrBusy)
	assert.ErrorIs(t, s.Reset(true), ErrBusy)

	close(api.gate)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
	assert.Len(t, api.generated, 1)
}

func TestSession_SettingsApplyToNextProblem(t *testing.T) {
	api := &fakeAPI{answer: 7}
	s, storage := namedSession(t, api)
	ctx := context.Background()

	require.NoError(t, s.NewProblem(ctx))
	active := s.Active()

	require.NoError(t, s.ChangeSettings(models.DifficultyHard, models.ProblemTypeDivision))
	assert.Equal(t, active.SessionID, s.Active().SessionID, "active problem untouched")
	assert.Equal(t, models.DifficultyHard, LoadProgress(storage).Difficulty)

	require.NoError(t, s.NewProblem(ctx))
	assert.Equal(t, "medium", api.generated[0].Difficulty)
	assert.Equal(t, "hard", api.generated[1].Difficulty)
	assert.Equal(t, "division", api.generated[1].ProblemType)

	assert.ErrorIs(t, s.ChangeSettings("insane", models.ProblemTypeMixed), ErrInvalidSetting)
}

func TestSession_Reset(t *testing.T) {
	api := &fakeAPI{answer: 7}
	s, storage := namedSession(t, api)
	ctx := context.Background()
	require.NoError(t, s.ChangeSettings(models.DifficultyEasy, models.ProblemTypeAddition))

	require.NoError(t, s.NewProblem(ctx))
	_, err := s.Submit(ctx, "7")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Reset(false), ErrResetNotConfirmed)
	assert.Equal(t, 10, s.Progress().Score)

	require.NoError(t, s.Reset(true))
	p := s.Progress()
	assert.Equal(t, 0, p.Score)
	assert.Equal(t, 0, p.Streak)
	assert.Empty(t, p.History)
	assert.Equal(t, "Ada", p.UserName)
	assert.Equal(t, models.DifficultyEasy, p.Difficulty)
	assert.Equal(t, models.ProblemTypeAddition, p.ProblemType)

	_, ok := storage.Get(KeyScore)
	assert.False(t, ok)
	_, ok = storage.Get(KeyHistory)
	assert.False(t, ok)
	assert.Equal(t, "Ada", LoadProgress(storage).UserName)
}

func TestSession_RestoresFromStorage(t *testing.T) {
	storage := NewMemoryStorage()
	p := NewProgress().WithName("Ada").WithSettings(models.DifficultyHard, models.ProblemTypeMixed).
		ApplySubmission(item(1, true))
	require.NoError(t, SaveProgress(storage, p))

	s := NewSession(&fakeAPI{}, storage)
	assert.Equal(t, StateAwaitingProblem, s.State())
	assert.Equal(t, 10, s.Progress().Score)
	assert.Equal(t, models.DifficultyHard, s.Progress().Difficulty)
}

func TestSession_TutorialFlag(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewSession(&fakeAPI{}, storage)
	assert.False(t, s.Progress().TutorialSeen)

	require.NoError(t, s.MarkTutorialSeen())
	assert.True(t, LoadProgress(storage).TutorialSeen)
}

// flakyStorage fails every write while broken is set.
type flakyStorage struct {
	*MemoryStorage
	broken bool
}

var errDiskFull = errors.New("disk full")

func (f *flakyStorage) Set(key, value string) error {
	if f.broken {
		return errDiskFull
	}
	return f.MemoryStorage.Set(key, value)
}

func (f *flakyStorage) SetMany(values map[string]string) error {
	if f.broken {
		return errDiskFull
	}
	return f.MemoryStorage.SetMany(values)
}

func (f *flakyStorage) Remove(keys ...string) error {
	if f.broken {
		return errDiskFull
	}
	return f.MemoryStorage.Remove(keys...)
}

func TestSession_FailedSaveKeepsMemoryInSync(t *testing.T) {
	storage := &flakyStorage{MemoryStorage: NewMemoryStorage()}
	s := NewSession(&fakeAPI{answer: 7}, storage)
	ctx := context.Background()

	storage.broken = true
	assert.ErrorIs(t, s.SetName("Ada"), errDiskFull)
	assert.Equal(t, StateNoName, s.State())

	storage.broken = false
	require.NoError(t, s.SetName("Ada"))
	require.NoError(t, s.NewProblem(ctx))
	_, err := s.Submit(ctx, "7")
	require.NoError(t, err)

	storage.broken = true
	assert.ErrorIs(t, s.ChangeSettings(models.DifficultyHard, models.ProblemTypeDivision), errDiskFull)
	assert.ErrorIs(t, s.MarkTutorialSeen(), errDiskFull)
	assert.ErrorIs(t, s.Reset(true), errDiskFull)

	p := s.Progress()
	assert.Equal(t, models.DifficultyMedium, p.Difficulty)
	assert.False(t, p.TutorialSeen)
	assert.Equal(t, 10, p.Score)
	assert.Len(t, p.History, 1)
	assert.Equal(t, p, LoadProgress(storage))
}
