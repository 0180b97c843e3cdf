package content

import (
	"strings"
)

// minQuestionLength is the shortest generated question accepted
const minQuestionLength = 11

// DefaultTips are used when a generated date idea carries no tips
var DefaultTips = []string{"Have fun!", "Take photos", "Be present"}

// TriviaQuestion is a parsed multiple-choice question
type TriviaQuestion struct {
	Question string
	Options  []string
}

// DateIdea is a parsed date suggestion
type DateIdea struct {
	Title       string
	Description string
	Tips        []string
}

// CleanQuestion trims whitespace and surrounding quotes from a generated
// question. It reports false when the result is too short to use.
func CleanQuestion(raw string) (string, bool) {
	q := strings.TrimSpace(raw)
	if len(q) < minQuestionLength {
		return "", false
	}
	q = strings.Trim(q, `"'`)
	q = strings.TrimSpace(q)
	if q == "" {
		return "", false
	}
	return q, true
}

// ParseTrivia reads the QUESTION:/A:/B:/C:/D: format. It reports false unless
// a question and exactly four options are present.
func ParseTrivia(raw string) (TriviaQuestion, bool) {
	var tq TriviaQuestion
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "QUESTION:"):
			tq.Question = strings.TrimSpace(strings.TrimPrefix(line, "QUESTION:"))
		case hasAnyPrefix(line, "A:", "B:", "C:", "D:"):
			tq.Options = append(tq.Options, strings.TrimSpace(line[2:]))
		}
	}
	if tq.Question == "" || len(tq.Options) != 4 {
		return TriviaQuestion{}, false
	}
	return tq, true
}

// ParseDateIdea reads the TITLE:/DESCRIPTION:/TIP1-3: format. It reports
// false when the title or description is missing.
func ParseDateIdea(raw string) (DateIdea, bool) {
	var idea DateIdea
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			idea.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			idea.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		case hasAnyPrefix(line, "TIP1:", "TIP2:", "TIP3:"):
			_, tip, _ := strings.Cut(line, ":")
			idea.Tips = append(idea.Tips, strings.TrimSpace(tip))
		}
	}
	if idea.Title == "" || idea.Description == "" {
		return DateIdea{}, false
	}
	if len(idea.Tips) == 0 {
		idea.Tips = append([]string(nil), DefaultTips...)
	}
	return idea, true
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
