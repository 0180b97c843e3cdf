package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanQuestion(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{raw: `"What makes you feel most loved by me?"`, want: "What makes you feel most loved by me?", wantOK: true},
		{raw: "  'Where should we travel next year?'  ", want: "Where should we travel next year?", wantOK: true},
		{raw: "Too short", wantOK: false},
		{raw: "", wantOK: false},
		{raw: `""""""""""""`, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := CleanQuestion(tt.raw)
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseTrivia(t *testing.T) {
	raw := `Sure! Here you go:
QUESTION: What is Sam's favorite fruit?
A: Mango
B: Apple
C: Banana
D: Kiwi`
	tq, ok := ParseTrivia(raw)
	require.True(t, ok)
	assert.Equal(t, "What is Sam's favorite fruit?", tq.Question)
	assert.Equal(t, []string{"Mango", "Apple", "Banana", "Kiwi"}, tq.Options)

	_, ok = ParseTrivia("QUESTION: Only two?\nA: yes\nB: no")
	assert.False(t, ok)

	_, ok = ParseTrivia("A: 1\nB: 2\nC: 3\nD: 4")
	assert.False(t, ok)
}

func TestParseDateIdea(t *testing.T) {
	raw := `TITLE: Stargazing
DESCRIPTION: Drive out of the city and watch the stars.
TIP1: Bring a blanket
TIP2: Download a star map
TIP3: Pack hot cocoa`
	idea, ok := ParseDateIdea(raw)
	require.True(t, ok)
	assert.Equal(t, "Stargazing", idea.Title)
	assert.Equal(t, []string{"Bring a blanket", "Download a star map", "Pack hot cocoa"}, idea.Tips)

	idea, ok = ParseDateIdea("TITLE: Bake\nDESCRIPTION: Bake bread together.")
	require.True(t, ok)
	assert.Equal(t, DefaultTips, idea.Tips)

	_, ok = ParseDateIdea("TITLE: Missing description")
	assert.False(t, ok)
}

func TestQuestionPromptListsRecentQuestions(t *testing.T) {
	var previous []string
	for i := range 25 {
		previous = append(previous, "question-"+string(rune('a'+i)))
	}
	prompt := QuestionPrompt("dreams", previous)
	assert.Contains(t, prompt, `"dreams" category`)
	assert.NotContains(t, prompt, "- question-a\n")
	assert.Contains(t, prompt, "- question-y")
	assert.Equal(t, MaxPreviousQuestions, strings.Count(prompt, "- question-"))

	assert.Contains(t, QuestionPrompt("playful", nil), "AVOID repeating:\nNone")
}

func TestFallbacks(t *testing.T) {
	for _, c := range QuestionCategories {
		assert.NotEmpty(t, FallbackQuestions(c), c)
	}
	assert.Equal(t, FallbackQuestions("emotional"), FallbackQuestions("unknown"))

	for _, c := range TriviaCategories {
		tq := FallbackTrivia("Sam", c)
		assert.Contains(t, tq.Question, "Sam", c)
		assert.Len(t, tq.Options, 4, c)
	}

	assert.Equal(t, "Hiking Adventure", FallbackDate("adventurous").Title)
	assert.Equal(t, "Sunset Picnic", FallbackDate("whatever").Title)
}

func TestCatalogs(t *testing.T) {
	for _, intensity := range DiceIntensities {
		d, ok := DiceFor(intensity)
		require.True(t, ok, intensity)
		for _, face := range append(d.Actions[:], d.Targets[:]...) {
			assert.NotEmpty(t, face)
		}
	}
	_, ok := DiceFor("volcanic")
	assert.False(t, ok)

	seen := map[string]bool{}
	for _, item := range FantasyCatalog {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
	item, ok := FantasyItemByID("massage")
	require.True(t, ok)
	assert.Equal(t, "sensual", item.Category)
}
