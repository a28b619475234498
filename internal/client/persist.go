package client

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/math-practice/backend/internal/models"
)

// Storage keys, one per progress field.
const (
	KeyUserName     = "userName"
	KeyScore        = "score"
	KeyStreak       = "streak"
	KeyHistory      = "history"
	KeyDifficulty   = "difficulty"
	KeyProblemType  = "problemType"
	KeyTutorialSeen = "tutorialSeen"
)

// LoadProgress restores progress from storage. Each key is validated on its
// own; a corrupt value is logged and replaced by its default.
func LoadProgress(s Storage) Progress {
	p := NewProgress()

	if v, ok := s.Get(KeyUserName); ok {
		p.UserName = strings.TrimSpace(v)
	}
	if v, ok := s.Get(KeyScore); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Score = n
		} else {
			log.Printf("WARN: discarding stored %s=%q", KeyScore, v)
		}
	}
	if v, ok := s.Get(KeyStreak); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Streak = n
		} else {
			log.Printf("WARN: discarding stored %s=%q", KeyStreak, v)
		}
	}
	if v, ok := s.Get(KeyDifficulty); ok {
		if d := models.Difficulty(v); d.Valid() {
			p.Difficulty = d
		} else {
			log.Printf("WARN: discarding stored %s=%q", KeyDifficulty, v)
		}
	}
	if v, ok := s.Get(KeyProblemType); ok {
		if t := models.ProblemType(v); t.Valid() {
			p.ProblemType = t
		} else {
			log.Printf("WARN: discarding stored %s=%q", KeyProblemType, v)
		}
	}
	if v, ok := s.Get(KeyHistory); ok && v != "" {
		var items []HistoryItem
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			log.Printf("WARN: discarding stored %s: %v", KeyHistory, err)
		} else {
			if len(items) > MaxHistory {
				items = items[:MaxHistory]
			}
			p.History = items
		}
	}
	if v, ok := s.Get(KeyTutorialSeen); ok {
		p.TutorialSeen = v == "true"
	}

	return p
}

// SaveProgress writes every field in a single storage write, so a transition
// is never half saved.
func SaveProgress(s Storage, p Progress) error {
	history := p.History
	if history == nil {
		history = []HistoryItem{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	err = s.SetMany(map[string]string{
		KeyUserName:     p.UserName,
		KeyScore:        strconv.Itoa(p.Score),
		KeyStreak:       strconv.Itoa(p.Streak),
		KeyHistory:      string(historyJSON),
		KeyDifficulty:   string(p.Difficulty),
		KeyProblemType:  string(p.ProblemType),
		KeyTutorialSeen: strconv.FormatBool(p.TutorialSeen),
	})
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// ClearProgress removes the score, streak and history entries.
func ClearProgress(s Storage) error {
	return s.Remove(KeyScore, KeyStreak, KeyHistory)
}
