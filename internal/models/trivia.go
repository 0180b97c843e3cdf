package models

import "time"

// Guess is a partner's attempt at a trivia question
type Guess struct {
	Answer    string    `json:"answer" bson:"answer"`
	IsCorrect bool      `json:"is_correct" bson:"is_correct"`
	Points    int       `json:"points" bson:"points"`
	GuessedAt time.Time `json:"guessed_at" bson:"guessed_at"`
}

// Trivia is a "how well do you know me" question about one partner
type Trivia struct {
	ID            string           `json:"id" bson:"_id"`
	PairKey       string           `json:"pair_key" bson:"pair_key"`
	Question      string           `json:"question" bson:"question"`
	Options       []string         `json:"options" bson:"options"`
	Category      string           `json:"category" bson:"category"`
	AboutUserID   string           `json:"about_user_id" bson:"about_user_id"`
	AboutUserName string           `json:"about_user_name" bson:"about_user_name"`
	CorrectAnswer *string          `json:"correct_answer" bson:"correct_answer"`
	Guesses       map[string]Guess `json:"guesses" bson:"guesses"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
}

// HasOption reports whether answer is one of the trivia options
func (t *Trivia) HasOption(answer string) bool {
	for _, o := range t.Options {
		if o == answer {
			return true
		}
	}
	return false
}

// TriviaScore is a user's running score inside one couple
type TriviaScore struct {
	UserID         string `json:"user_id" bson:"user_id"`
	PairKey        string `json:"pair_key" bson:"pair_key"`
	Score          int    `json:"score" bson:"score"`
	TotalQuestions int    `json:"total_questions" bson:"total_questions"`
	Correct        int    `json:"correct" bson:"correct"`
}
