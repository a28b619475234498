package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GeneratedProblem is a decoded model reply. FinalAnswer is never sent to
// learners before they answer.
type GeneratedProblem struct {
	ProblemText   string
	FinalAnswer   float64
	Hint          string
	SolutionSteps []string
}

type rawProblem struct {
	ProblemText   string          `json:"problem_text"`
	FinalAnswer   json.RawMessage `json:"final_answer"`
	Hint          *string         `json:"hint"`
	SolutionSteps []string        `json:"solution_steps"`
}

// GenerationParseError reports a model reply that could not be decoded into
// a GeneratedProblem.
type GenerationParseError struct {
	Reason string
	Err    error
}

func (e *GenerationParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation parse failed: %s: %v", e.Reason, e.Err)
	}
	return "generation parse failed: " + e.Reason
}

func (e *GenerationParseError) Unwrap() error { return e.Err }

// ParseProblem decodes the model's raw text. Code fences and any prose around
// the JSON object are discarded first.
func ParseProblem(raw string) (*GeneratedProblem, error) {
	cleaned := extractJSONObject(stripCodeFences(raw))
	if cleaned == "" {
		return nil, &GenerationParseError{Reason: "no JSON object in response"}
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &GenerationParseError{Reason: "invalid JSON", Err: err}
	}

	schema, err := problemValidator()
	if err != nil {
		return nil, &GenerationParseError{Reason: "compile schema", Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &GenerationParseError{Reason: "unexpected shape", Err: err}
	}

	var rp rawProblem
	if err := json.Unmarshal([]byte(cleaned), &rp); err != nil {
		return nil, &GenerationParseError{Reason: "decode fields", Err: err}
	}

	text := strings.TrimSpace(rp.ProblemText)
	if text == "" {
		return nil, &GenerationParseError{Reason: "empty problem_text"}
	}

	answer, err := coerceAnswer(rp.FinalAnswer)
	if err != nil {
		return nil, &GenerationParseError{Reason: "non-numeric final_answer", Err: err}
	}

	p := &GeneratedProblem{
		ProblemText: text,
		FinalAnswer: answer,
	}
	if rp.Hint != nil {
		p.Hint = strings.TrimSpace(*rp.Hint)
	}
	for _, step := range rp.SolutionSteps {
		if s := strings.TrimSpace(step); s != "" {
			p.SolutionSteps = append(p.SolutionSteps, s)
		}
	}
	return p, nil
}

// coerceAnswer accepts a JSON number or a string holding one.
func coerceAnswer(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("final_answer is %s", string(raw))
		}
		v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, err
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("final_answer is not finite")
	}
	return v, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// extractJSONObject returns the span from the first '{' to the last '}'.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
