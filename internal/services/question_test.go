package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"candle-backend/internal/content"
	"candle-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAdvanceStreak(t *testing.T) {
	tests := []struct {
		name        string
		streak      models.Streak
		date        string
		wantChanged bool
		wantCurrent int
		wantLongest int
		wantMiles   []int
	}{
		{
			name:        "first answer",
			date:        "2024-03-01",
			wantChanged: true,
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "same day is a no-op",
			streak:      models.Streak{CurrentStreak: 3, LongestStreak: 3, LastAnsweredDate: strPtr("2024-03-01")},
			date:        "2024-03-01",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "next day extends",
			streak:      models.Streak{CurrentStreak: 6, LongestStreak: 6, LastAnsweredDate: strPtr("2024-02-29")},
			date:        "2024-03-01",
			wantChanged: true,
			wantCurrent: 7,
			wantLongest: 7,
			wantMiles:   []int{7},
		},
		{
			name:        "gap resets",
			streak:      models.Streak{CurrentStreak: 9, LongestStreak: 12, LastAnsweredDate: strPtr("2024-03-01"), MilestonesReached: []int{7}},
			date:        "2024-03-05",
			wantChanged: true,
			wantCurrent: 1,
			wantLongest: 12,
			wantMiles:   []int{7},
		},
		{
			name:        "earlier date resets",
			streak:      models.Streak{CurrentStreak: 2, LongestStreak: 2, LastAnsweredDate: strPtr("2024-03-05")},
			date:        "2024-03-04",
			wantChanged: true,
			wantCurrent: 1,
			wantLongest: 2,
		},
		{
			name:        "milestone recorded once",
			streak:      models.Streak{CurrentStreak: 13, LongestStreak: 13, LastAnsweredDate: strPtr("2024-12-31"), MilestonesReached: []int{7}},
			date:        "2025-01-01",
			wantChanged: true,
			wantCurrent: 14,
			wantLongest: 14,
			wantMiles:   []int{7, 14},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.streak
			changed, err := advanceStreak(&s, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantCurrent, s.CurrentStreak)
			assert.Equal(t, tt.wantLongest, s.LongestStreak)
			if tt.wantMiles == nil {
				assert.Empty(t, s.MilestonesReached)
			} else {
				assert.Equal(t, tt.wantMiles, s.MilestonesReached)
			}
		})
	}

	_, err := advanceStreak(&models.Streak{}, "yesterday")
	assert.Error(t, err)
}

func TestCategoryForDate(t *testing.T) {
	assert.Equal(t, "playful", CategoryForDate("2024-01-01"))
	assert.Equal(t, "emotional", CategoryForDate("2024-01-07"))
	assert.Equal(t, "hypothetical", CategoryForDate("2024-01-06"))
}

func TestTodayQuestionIsSharedAndGeneratedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	env.gen.reply, env.gen.err = `"What is one small thing I do that always makes you smile?"`, nil

	q1, err := env.svc.Questions.Today(ctx, alex)
	require.NoError(t, err)
	assert.Equal(t, "What is one small thing I do that always makes you smile?", q1.Text)
	assert.Equal(t, models.Day(time.Now()), q1.Date)
	assert.Equal(t, CategoryForDate(q1.Date), q1.Category)

	q2, err := env.svc.Questions.Today(ctx, sam)
	require.NoError(t, err)
	assert.Equal(t, q1.ID, q2.ID)
	assert.Equal(t, 1, env.gen.calls())

	_, err = env.svc.Questions.Today(ctx, env.register(t, "solo@example.com", "Solo"))
	assert.ErrorIs(t, err, ErrNotPaired)
}

func TestTodayQuestionFallsBack(t *testing.T) {
	env := newTestEnv(t)
	alex, _ := env.couple(t)

	q, err := env.svc.Questions.Today(context.Background(), alex)
	require.NoError(t, err)
	assert.Contains(t, content.FallbackQuestions(q.Category), q.Text)

	env2 := newTestEnv(t)
	alex2, _ := env2.couple(t)
	env2.gen.reply, env2.gen.err = "Hmm?", nil
	q, err = env2.svc.Questions.Today(context.Background(), alex2)
	require.NoError(t, err)
	assert.Contains(t, content.FallbackQuestions(q.Category), q.Text)
}

func TestAnsweringUpdatesStreaks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	q, err := env.svc.Questions.Today(ctx, alex)
	require.NoError(t, err)

	_, err = env.svc.Questions.Answer(ctx, alex, AnswerRequest{QuestionID: q.ID, AnswerText: strings.Repeat("x", 501)})
	assert.ErrorIs(t, err, ErrAnswerTooLong)
	_, err = env.svc.Questions.Answer(ctx, alex, AnswerRequest{QuestionID: "missing", AnswerText: "hi"})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	view, err := env.svc.Questions.Answer(ctx, alex, AnswerRequest{QuestionID: q.ID, AnswerText: "Your laugh"})
	require.NoError(t, err)
	assert.False(t, view.BothAnswered)
	require.NotNil(t, view.UserAnswer)
	assert.Equal(t, "Your laugh", *view.UserAnswer)

	_, err = env.svc.Questions.Answer(ctx, alex, AnswerRequest{QuestionID: q.ID, AnswerText: "Again"})
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	require.NoError(t, env.svc.Questions.React(ctx, alex, ReactRequest{QuestionID: q.ID, Reaction: "heart"}))

	// Sam cannot see Alex's answer or reaction yet
	samView, err := env.svc.Questions.Today(ctx, sam)
	require.NoError(t, err)
	assert.Nil(t, samView.PartnerAnswer)
	assert.Nil(t, samView.PartnerReaction)

	view, err = env.svc.Questions.Answer(ctx, sam, AnswerRequest{QuestionID: q.ID, AnswerText: "Your cooking"})
	require.NoError(t, err)
	assert.True(t, view.BothAnswered)
	require.NotNil(t, view.PartnerAnswer)
	assert.Equal(t, "Your laugh", *view.PartnerAnswer)
	require.NotNil(t, view.PartnerReaction)
	assert.Equal(t, "heart", *view.PartnerReaction)

	for _, u := range []*models.User{alex, sam} {
		streak, err := env.svc.Streaks.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, streak.CurrentStreak)
		require.NotNil(t, streak.LastAnsweredDate)
		assert.Equal(t, q.Date, *streak.LastAnsweredDate)
	}

	history, err := env.svc.Questions.History(ctx, alex)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].BothAnswered)
}

func TestAnswerOtherCouplesQuestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, _ := env.couple(t)
	q, err := env.svc.Questions.Today(ctx, alex)
	require.NoError(t, err)

	jo := env.register(t, "jo@example.com", "Jo")
	kim := env.register(t, "kim@example.com", "Kim")
	code, err := env.svc.Pairs.GenerateCode(ctx, jo)
	require.NoError(t, err)
	_, err = env.svc.Pairs.Connect(ctx, kim, code.Code)
	require.NoError(t, err)

	_, err = env.svc.Questions.Answer(ctx, env.reload(t, kim), AnswerRequest{QuestionID: q.ID, AnswerText: "sneaky"})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestReactValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, _ := env.couple(t)

	err := env.svc.Questions.React(ctx, alex, ReactRequest{QuestionID: "x", Reaction: "meh"})
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindInvalid, svcErr.Kind)

	err = env.svc.Questions.React(ctx, alex, ReactRequest{QuestionID: "missing", Reaction: "fire"})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestStreakWithoutDocument(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.svc.Streaks.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStreak)
	assert.Nil(t, resp.LastAnsweredDate)
	assert.Equal(t, []int{}, resp.Milestones)
}
