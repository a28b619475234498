package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/math-practice/backend/internal/client"
	"github.com/math-practice/backend/internal/models"
)

// stubServer answers 7 to every problem.
func stubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/math-problem", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.GenerateProblemResponse{
			SessionID:     "s-1",
			ProblemText:   "Tom has 3 apples and buys 4 more.",
			Hint:          "Add them.",
			SolutionSteps: []string{"3 + 4 = 7"},
		})
	})
	mux.HandleFunc("/api/math-problem/submit", func(w http.ResponseWriter, r *http.Request) {
		var req models.SubmitAnswerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		correct := req.UserAnswer != nil && *req.UserAnswer == 7
		json.NewEncoder(w).Encode(models.SubmitAnswerResponse{
			IsCorrect:     correct,
			FeedbackText:  "Nice work.",
			CorrectAnswer: 7,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runPlayer(t *testing.T, session *client.Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	p := newPlayer(session, strings.NewReader(input), &out)
	require.NoError(t, p.run(t.Context()))
	return out.String()
}

func TestPlayFirstRun(t *testing.T) {
	srv := stubServer(t)
	storage := client.NewMemoryStorage()
	session := client.NewSession(client.NewHTTPClient(srv.URL), storage)

	out := runPlayer(t, session, "Ana\n7\nq\n")

	assert.Contains(t, out, "How it works")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Nice work.")

	p := session.Progress()
	assert.Equal(t, "Ana", p.UserName)
	assert.True(t, p.TutorialSeen)
	assert.Equal(t, 10, p.Score)
	assert.Equal(t, 1, p.Streak)
	require.Len(t, p.History, 1)
	assert.Equal(t, "3 + 4 = 7", p.History[0].SolutionSteps[0])
}

func TestPlaySkipsTutorialOnceSeen(t *testing.T) {
	srv := stubServer(t)
	storage := client.NewMemoryStorage()
	session := client.NewSession(client.NewHTTPClient(srv.URL), storage)
	require.NoError(t, session.SetName("Ana"))
	require.NoError(t, session.MarkTutorialSeen())

	out := runPlayer(t, session, "q\n")

	assert.NotContains(t, out, "How it works")
	assert.NotContains(t, out, "Your name:")
}

func TestPlayWrongAnswerAndRejectedInput(t *testing.T) {
	srv := stubServer(t)
	session := client.NewSession(client.NewHTTPClient(srv.URL), client.NewMemoryStorage())
	require.NoError(t, session.SetName("Ana"))

	out := runPlayer(t, session, "abc\n5\n6\nq\n")

	assert.Contains(t, out, "Please type a number")
	assert.Contains(t, out, "The answer is 7")
	assert.Contains(t, out, "You've answered this one")

	p := session.Progress()
	assert.Equal(t, 0, p.Score)
	require.Len(t, p.History, 1)
	assert.Equal(t, 5.0, p.History[0].UserAnswer)
}

func TestPlayHintToggle(t *testing.T) {
	srv := stubServer(t)
	session := client.NewSession(client.NewHTTPClient(srv.URL), client.NewMemoryStorage())
	require.NoError(t, session.SetName("Ana"))

	out := runPlayer(t, session, "h\nh\nq\n")

	assert.Contains(t, out, "Add them.")
	assert.Contains(t, out, "Hint hidden.")
	assert.False(t, session.Active().ShowHint)
}

func TestPlayServerDown(t *testing.T) {
	srv := stubServer(t)
	url := srv.URL
	srv.Close()

	session := client.NewSession(client.NewHTTPClient(url), client.NewMemoryStorage())
	require.NoError(t, session.SetName("Ana"))

	out := runPlayer(t, session, "q\n")

	assert.Contains(t, out, "Couldn't get a new problem")
	assert.Equal(t, client.StateAwaitingProblem, session.State())
}

func TestDescribeErrorUsesServerMessage(t *testing.T) {
	err := describeError("Couldn't submit", &client.APIError{Status: 404, Message: "Session not found"})
	assert.Equal(t, "Couldn't submit: Session not found", err.Error())
}
