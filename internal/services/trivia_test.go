package services

import (
	"context"
	"testing"

	"candle-backend/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriviaRound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	// about the caller, first category
	env.svc.Trivia.intn = func(int) int { return 0 }
	env.gen.reply, env.gen.err = "QUESTION: What is Alex's favorite season?\nA: Spring\nB: Summer\nC: Autumn\nD: Winter", nil

	round, err := env.svc.Trivia.NewQuestion(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, "Alex", round.AboutUser)
	assert.Equal(t, content.TriviaCategories[0], round.Category)
	assert.Equal(t, []string{"Spring", "Summer", "Autumn", "Winter"}, round.Options)

	pending, err := env.svc.Trivia.Pending(ctx, alex)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, round.ID, pending[0].ID)

	_, err = env.svc.Trivia.Guess(ctx, sam, GuessRequest{TriviaID: round.ID, SelectedOption: "Autumn"})
	assert.ErrorIs(t, err, ErrAnswerNotSet)

	assert.ErrorIs(t, env.svc.Trivia.SetAnswer(ctx, sam, SetAnswerRequest{TriviaID: round.ID, Answer: "Autumn"}), ErrNotTriviaSubject)
	assert.ErrorIs(t, env.svc.Trivia.SetAnswer(ctx, alex, SetAnswerRequest{TriviaID: round.ID, Answer: "Monsoon"}), ErrInvalidOption)
	assert.ErrorIs(t, env.svc.Trivia.SetAnswer(ctx, alex, SetAnswerRequest{TriviaID: "missing", Answer: "Autumn"}), ErrTriviaNotFound)
	require.NoError(t, env.svc.Trivia.SetAnswer(ctx, alex, SetAnswerRequest{TriviaID: round.ID, Answer: "Autumn"}))

	pending, err = env.svc.Trivia.Pending(ctx, alex)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = env.svc.Trivia.Guess(ctx, alex, GuessRequest{TriviaID: round.ID, SelectedOption: "Autumn"})
	assert.ErrorIs(t, err, ErrGuessOwnTrivia)

	result, err := env.svc.Trivia.Guess(ctx, sam, GuessRequest{TriviaID: round.ID, SelectedOption: "Autumn"})
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, "Autumn", result.CorrectAnswer)

	_, err = env.svc.Trivia.Guess(ctx, sam, GuessRequest{TriviaID: round.ID, SelectedOption: "Autumn"})
	assert.ErrorIs(t, err, ErrAlreadyGuessed)

	scores, err := env.svc.Trivia.Scores(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, &ScoresResponse{UserScore: 0, PartnerScore: 10, TotalQuestions: 1, UserCorrect: 0, PartnerCorrect: 1}, scores)
}

func TestTriviaWrongGuessAndFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	// about the partner, last category, generator offline
	env.svc.Trivia.intn = func(n int) int { return n - 1 }
	round, err := env.svc.Trivia.NewQuestion(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, "Sam", round.AboutUser)
	assert.Equal(t, content.FallbackTrivia("Sam", round.Category).Question, round.Question)

	require.NoError(t, env.svc.Trivia.SetAnswer(ctx, sam, SetAnswerRequest{TriviaID: round.ID, Answer: round.Options[1]}))
	result, err := env.svc.Trivia.Guess(ctx, alex, GuessRequest{TriviaID: round.ID, SelectedOption: round.Options[0]})
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsEarned)

	scores, err := env.svc.Trivia.Scores(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, 0, scores.UserScore)
	assert.Equal(t, 1, scores.TotalQuestions)
}
