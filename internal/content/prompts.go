// Package content holds the text-generation prompts, the parsers for the
// generator's line formats and the static content used when generation fails.
package content

import (
	"fmt"
	"strings"
)

// Question categories, rotated by day of year
var QuestionCategories = []string{"emotional", "playful", "gratitude", "dreams", "communication", "spicy", "hypothetical"}

// Trivia categories
var TriviaCategories = []string{"favorites", "memories", "preferences", "dreams", "habits", "personality"}

const (
	QuestionSystem = "You are a relationship expert who creates meaningful, engaging questions for couples and close friends to deepen their connection."
	TriviaSystem   = "You are creating fun relationship trivia questions. Keep them light, engaging, and appropriate for couples."
	DateSystem     = "You are a creative date planner helping couples have amazing experiences together."
)

// MaxPreviousQuestions bounds how many earlier questions the prompt lists
const MaxPreviousQuestions = 20

// QuestionPrompt asks for one question in category that differs from previous
func QuestionPrompt(category string, previous []string) string {
	if len(previous) > MaxPreviousQuestions {
		previous = previous[len(previous)-MaxPreviousQuestions:]
	}
	prev := "None"
	if len(previous) > 0 {
		lines := make([]string, len(previous))
		for i, q := range previous {
			lines[i] = "- " + q
		}
		prev = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Generate ONE unique relationship question in the "%[1]s" category.

Category descriptions:
- emotional: Questions about feelings, fears, and emotional needs
- playful: Fun, light-hearted questions that make people laugh
- gratitude: Questions about appreciation and thankfulness
- dreams: Questions about hopes, goals, and the future together
- communication: Questions about how partners communicate and resolve conflicts
- spicy: Romantic, flirty questions (keep it tasteful)
- hypothetical: "What if" scenarios that reveal values and preferences

Previously asked questions to AVOID repeating:
%[2]s

Rules:
1. Question must be in the %[1]s category
2. Must be different from all previous questions
3. Should be open-ended (not yes/no)
4. Should encourage meaningful conversation
5. Keep it between 10-30 words

Return ONLY the question text, nothing else.`, category, prev)
}

// TriviaPrompt asks for a four-option question about subject in category
func TriviaPrompt(subject, category string) string {
	return fmt.Sprintf(`Generate a fun "How well do you know me?" trivia question for couples.

The question should be about %s's %s.

Category examples:
- favorites: favorite color, food, movie, song, book, place
- memories: first date, funny moments, embarrassing stories
- preferences: morning/night person, coffee/tea, cats/dogs
- dreams: bucket list items, career goals, travel wishes
- habits: daily routines, quirks, pet peeves
- personality: fears, strengths, love language

Generate a multiple choice question with 4 options.

Return in this EXACT format (no extra text):
QUESTION: [Your question here]
A: [Option A]
B: [Option B]
C: [Option C]
D: [Option D]`, subject, category)
}

// DatePrompt asks for one date idea matching the filters
func DatePrompt(budget, mood, location string) string {
	return fmt.Sprintf(`Generate a creative date idea for a couple.

Requirements:
- Budget level: %s (low = free or under $20, medium = $20-$100, high = $100+)
- Mood: %s (romantic, adventurous, relaxed, fun)
- Location: %s (indoor, outdoor, any)

Return in this EXACT format:
TITLE: [Short catchy title]
DESCRIPTION: [2-3 sentence description]
TIP1: [First helpful tip]
TIP2: [Second helpful tip]
TIP3: [Third helpful tip]`, budget, mood, location)
}
