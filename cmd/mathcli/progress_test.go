package main

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/math-practice/backend/internal/client"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 60))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	// Cut lands right on a multi-byte rune.
	s := strings.Repeat("a", 56) + "÷ 8 children share the sweets equally."
	got := truncate(s, 60)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 56)+"÷...", got)
}

func TestRenderHistoryLineValidUTF8(t *testing.T) {
	h := client.HistoryItem{
		ProblemText: strings.Repeat("a", 56) + "½ × 3 of the cake is left. How much is eaten?",
		Timestamp:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	line := renderHistoryLine(1, h)
	assert.True(t, utf8.ValidString(line))
	assert.Contains(t, line, "...")
}
