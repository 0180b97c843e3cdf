// Package repotest holds the behaviour every repository backend must share.
// Backend packages call Run from their tests with a fresh set of stores.
package repotest

import (
	"context"
	"testing"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the store contracts against repos
func Run(t *testing.T, repos *repository.Repositories) {
	t.Run("users", func(t *testing.T) { testUsers(t, repos) })
	t.Run("pairing codes", func(t *testing.T) { testPairingCodes(t, repos) })
	t.Run("questions", func(t *testing.T) { testQuestions(t, repos) })
	t.Run("streaks", func(t *testing.T) { testStreaks(t, repos) })
	t.Run("trivia", func(t *testing.T) { testTrivia(t, repos) })
	t.Run("notes", func(t *testing.T) { testNotes(t, repos) })
	t.Run("moods", func(t *testing.T) { testMoods(t, repos) })
	t.Run("coupons", func(t *testing.T) { testCoupons(t, repos) })
	t.Run("bucket", func(t *testing.T) { testBucket(t, repos) })
	t.Run("memories", func(t *testing.T) { testMemories(t, repos) })
	t.Run("side channels", func(t *testing.T) { testSideChannels(t, repos) })
}

// ts truncates to milliseconds so every backend round-trips it exactly
func ts(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func newUser(email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		Name:         "User " + email,
		CreatedAt:    ts(time.Now()),
	}
}

func strPtr(s string) *string { return &s }

func testUsers(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"
	u := newUser(email)
	require.NoError(t, repos.Users.Create(ctx, u))

	dup := newUser(email)
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), repository.ErrDuplicate)

	got, err := repos.Users.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.HasPartner())

	require.NoError(t, repos.Users.SetPartner(ctx, u.ID, strPtr("p1"), strPtr("Partner")))
	got, err = repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PartnerIDValue())
	assert.Equal(t, "Partner", got.PartnerNameValue())

	require.NoError(t, repos.Users.SetPartner(ctx, u.ID, nil, nil))
	require.NoError(t, repos.Users.UpdatePushToken(ctx, u.ID, strPtr("device")))
	sub := &models.WebPushSubscription{Endpoint: "https://push.example.com/1", P256dh: "k", Auth: "a"}
	require.NoError(t, repos.Users.UpdateWebPush(ctx, u.ID, sub))

	got, err = repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPartner())
	require.NotNil(t, got.PushToken)
	assert.Equal(t, "device", *got.PushToken)
	require.NotNil(t, got.WebPush)
	assert.Equal(t, sub.Endpoint, got.WebPush.Endpoint)

	_, err = repos.Users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repos.Users.SetPartner(ctx, "missing", nil, nil), repository.ErrNotFound)
}

func testPairingCodes(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	now := ts(time.Now())
	code := &models.PairingCode{
		Code:      "AB" + uuid.NewString()[:4],
		UserID:    uuid.NewString(),
		UserName:  "Alice",
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repos.PairingCodes.Create(ctx, code))

	got, err := repos.PairingCodes.GetByCode(ctx, code.Code)
	require.NoError(t, err)
	assert.Equal(t, code.UserID, got.UserID)
	assert.False(t, got.Expired(now))

	require.NoError(t, repos.PairingCodes.DeleteByUser(ctx, code.UserID))
	_, err = repos.PairingCodes.GetByCode(ctx, code.Code)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, repos.PairingCodes.Delete(ctx, code.Code))
}

func testQuestions(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	pairKey := models.PairKey(uuid.NewString(), uuid.NewString())
	base := ts(time.Now())

	for i, date := range []string{"2024-01-01", "2024-01-03", "2024-01-02"} {
		q := &models.Question{
			ID:        uuid.NewString(),
			PairKey:   pairKey,
			Text:      "Question " + date,
			Category:  "emotional",
			Date:      date,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repos.Questions.Create(ctx, q))
	}

	again := &models.Question{ID: uuid.NewString(), PairKey: pairKey, Text: "x", Category: "fun", Date: "2024-01-01", CreatedAt: base}
	assert.ErrorIs(t, repos.Questions.Create(ctx, again), repository.ErrDuplicate)

	list, err := repos.Questions.ListByPair(ctx, pairKey, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-03", list[0].Date)
	assert.Equal(t, "2024-01-02", list[1].Date)

	q, err := repos.Questions.GetByPairAndDate(ctx, pairKey, "2024-01-01")
	require.NoError(t, err)

	answer := models.Answer{Text: "hello", AnsweredAt: base}
	require.NoError(t, repos.Questions.SetAnswer(ctx, q.ID, "u1", answer))
	assert.ErrorIs(t, repos.Questions.SetAnswer(ctx, q.ID, "u1", answer), repository.ErrDuplicate)
	assert.ErrorIs(t, repos.Questions.SetAnswer(ctx, "missing", "u1", answer), repository.ErrNotFound)

	require.NoError(t, repos.Questions.SetReaction(ctx, q.ID, "u2", "heart"))
	require.NoError(t, repos.Questions.SetReaction(ctx, q.ID, "u2", "fire"))
	assert.ErrorIs(t, repos.Questions.SetReaction(ctx, "missing", "u2", "fire"), repository.ErrNotFound)

	got, err := repos.Questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Answers["u1"].Text)
	assert.Equal(t, "fire", got.Reactions["u2"])
}

func testStreaks(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()
	_, err := repos.Streaks.Get(ctx, userID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repos.Streaks.Upsert(ctx, &models.Streak{UserID: userID}))
	require.NoError(t, repos.Streaks.Upsert(ctx, &models.Streak{
		UserID:            userID,
		CurrentStreak:     7,
		LongestStreak:     9,
		LastAnsweredDate:  strPtr("2024-02-01"),
		MilestonesReached: []int{7},
	}))

	got, err := repos.Streaks.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak)
	assert.Equal(t, []int{7}, got.MilestonesReached)
	require.NotNil(t, got.LastAnsweredDate)
	assert.Equal(t, "2024-02-01", *got.LastAnsweredDate)
}

func testTrivia(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	pairKey := models.PairKey(uuid.NewString(), uuid.NewString())
	base := ts(time.Now())

	older := &models.Trivia{
		ID: uuid.NewString(), PairKey: pairKey, Question: "Q1", Options: []string{"a", "b", "c", "d"},
		Category: "favorites", AboutUserID: "alice", AboutUserName: "Alice", CreatedAt: base,
	}
	newer := &models.Trivia{
		ID: uuid.NewString(), PairKey: pairKey, Question: "Q2", Options: []string{"a", "b", "c", "d"},
		Category: "habits", AboutUserID: "alice", AboutUserName: "Alice", CreatedAt: base.Add(time.Second),
	}
	require.NoError(t, repos.Trivia.Create(ctx, older))
	require.NoError(t, repos.Trivia.Create(ctx, newer))

	pending, err := repos.Trivia.ListPendingAbout(ctx, pairKey, "alice", 20)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newer.ID, pending[0].ID)

	require.NoError(t, repos.Trivia.SetCorrectAnswer(ctx, older.ID, "b"))
	pending, err = repos.Trivia.ListPendingAbout(ctx, pairKey, "alice", 20)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	guess := models.Guess{Answer: "b", IsCorrect: true, Points: 10, GuessedAt: base}
	require.NoError(t, repos.Trivia.SetGuess(ctx, older.ID, "bob", guess))
	assert.ErrorIs(t, repos.Trivia.SetGuess(ctx, older.ID, "bob", guess), repository.ErrDuplicate)

	got, err := repos.Trivia.GetByID(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CorrectAnswer)
	assert.Equal(t, "b", *got.CorrectAnswer)
	assert.True(t, got.Guesses["bob"].IsCorrect)

	_, err = repos.TriviaScores.Get(ctx, "bob", pairKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, repos.TriviaScores.Increment(ctx, "bob", pairKey, 10, 1))
	require.NoError(t, repos.TriviaScores.Increment(ctx, "bob", pairKey, 0, 0))
	score, err := repos.TriviaScores.Get(ctx, "bob", pairKey)
	require.NoError(t, err)
	assert.Equal(t, 10, score.Score)
	assert.Equal(t, 2, score.TotalQuestions)
	assert.Equal(t, 1, score.Correct)
}

func testNotes(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	from, to := uuid.NewString(), uuid.NewString()
	base := ts(time.Now())

	var ids []string
	for i := range 3 {
		n := &models.LoveNote{
			ID: uuid.NewString(), FromUserID: from, FromUserName: "Alice", ToUserID: to,
			Message: "note", CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repos.Notes.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	received, err := repos.Notes.ListReceived(ctx, to, 50)
	require.NoError(t, err)
	require.Len(t, received, 3)
	assert.Equal(t, ids[2], received[0].ID)

	sent, err := repos.Notes.ListSent(ctx, from, 2)
	require.NoError(t, err)
	assert.Len(t, sent, 2)

	require.NoError(t, repos.Notes.MarkRead(ctx, ids[0], to))
	assert.ErrorIs(t, repos.Notes.MarkRead(ctx, ids[0], to), repository.ErrNotFound)
	assert.ErrorIs(t, repos.Notes.MarkRead(ctx, ids[1], from), repository.ErrNotFound)

	count, err := repos.Notes.CountUnread(ctx, to)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func testMoods(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	base := ts(time.Now())

	first := &models.MoodCheckin{ID: uuid.NewString(), UserID: alice, UserName: "Alice", Mood: "happy", Date: "2024-03-01", CreatedAt: base}
	require.NoError(t, repos.Moods.Upsert(ctx, first))
	firstID := first.ID

	again := &models.MoodCheckin{ID: uuid.NewString(), UserID: alice, UserName: "Alice", Mood: "sad", Note: strPtr("long day"), Date: "2024-03-01", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repos.Moods.Upsert(ctx, again))
	assert.Equal(t, firstID, again.ID)

	got, err := repos.Moods.GetByUserAndDate(ctx, alice, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "sad", got.Mood)
	assert.Equal(t, firstID, got.ID)

	require.NoError(t, repos.Moods.Upsert(ctx, &models.MoodCheckin{ID: uuid.NewString(), UserID: bob, UserName: "Bob", Mood: "content", Date: "2024-03-02", CreatedAt: base}))
	require.NoError(t, repos.Moods.Upsert(ctx, &models.MoodCheckin{ID: uuid.NewString(), UserID: alice, UserName: "Alice", Mood: "neutral", Date: "2024-02-28", CreatedAt: base}))

	history, err := repos.Moods.ListByUsers(ctx, []string{alice, bob}, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-03-02", history[0].Date)
	assert.Equal(t, "2024-02-28", history[2].Date)
}

func testCoupons(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	from, to := uuid.NewString(), uuid.NewString()
	c := &models.Coupon{
		ID: uuid.NewString(), PairKey: models.PairKey(from, to), FromUserID: from, FromUserName: "Alice",
		ToUserID: to, Title: "Breakfast in bed", Status: models.CouponActive, CreatedAt: ts(time.Now()),
	}
	require.NoError(t, repos.Coupons.Create(ctx, c))

	received, err := repos.Coupons.ListReceived(ctx, to, 50)
	require.NoError(t, err)
	require.Len(t, received, 1)

	at := ts(time.Now())
	require.NoError(t, repos.Coupons.Redeem(ctx, c.ID, at))
	assert.ErrorIs(t, repos.Coupons.Redeem(ctx, c.ID, at), repository.ErrNotFound)

	got, err := repos.Coupons.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CouponRedeemed, got.Status)
	require.NotNil(t, got.RedeemedAt)
	assert.True(t, at.Equal(*got.RedeemedAt))
}

func testBucket(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	pairKey := models.PairKey(uuid.NewString(), uuid.NewString())
	base := ts(time.Now())

	first := &models.BucketItem{ID: uuid.NewString(), PairKey: pairKey, Title: "Paris", Category: "travel", CreatedBy: "a", CreatedByName: "A", CreatedAt: base}
	second := &models.BucketItem{ID: uuid.NewString(), PairKey: pairKey, Title: "Sushi", Category: "food", CreatedBy: "a", CreatedByName: "A", CreatedAt: base.Add(time.Second)}
	require.NoError(t, repos.Bucket.Create(ctx, first))
	require.NoError(t, repos.Bucket.Create(ctx, second))

	require.NoError(t, repos.Bucket.SetCompleted(ctx, second.ID, true, strPtr("a"), &base))
	items, err := repos.Bucket.ListByPair(ctx, pairKey, 100)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.True(t, items[1].IsCompleted)

	require.NoError(t, repos.Bucket.Delete(ctx, first.ID))
	assert.ErrorIs(t, repos.Bucket.Delete(ctx, first.ID), repository.ErrNotFound)
}

func testMemories(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	pairKey := models.PairKey(uuid.NewString(), uuid.NewString())
	base := ts(time.Now())

	early := &models.Memory{ID: uuid.NewString(), PairKey: pairKey, Title: "First date", Date: "2023-05-01", CreatedBy: "a", CreatedByName: "A", CreatedAt: base}
	late := &models.Memory{ID: uuid.NewString(), PairKey: pairKey, Title: "Trip", Date: "2024-05-01", CreatedBy: "b", CreatedByName: "B", CreatedAt: base}
	require.NoError(t, repos.Memories.Create(ctx, early))
	require.NoError(t, repos.Memories.Create(ctx, late))

	list, err := repos.Memories.ListByPair(ctx, pairKey, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, late.ID, list[0].ID)

	assert.ErrorIs(t, repos.Memories.Delete(ctx, early.ID, "b"), repository.ErrNotFound)
	require.NoError(t, repos.Memories.Delete(ctx, early.ID, "a"))
}

func testSideChannels(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	userID := uuid.NewString()
	pairKey := models.PairKey(userID, uuid.NewString())
	base := ts(time.Now())

	require.NoError(t, repos.ThumbTouches.Upsert(ctx, &models.ThumbTouch{UserID: userID, PairKey: pairKey, X: 0.1, Y: 0.2, TouchedAt: base}))
	require.NoError(t, repos.ThumbTouches.Upsert(ctx, &models.ThumbTouch{UserID: userID, PairKey: pairKey, X: 0.5, Y: 0.6, TouchedAt: base}))
	touch, err := repos.ThumbTouches.Get(ctx, userID)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, touch.X, 1e-9)

	require.NoError(t, repos.Dice.Create(ctx, &models.DiceRoll{ID: uuid.NewString(), PairKey: pairKey, RolledBy: userID, RolledByName: "A", Intensity: "mild", Action: "Kiss", Target: "neck", CreatedAt: base}))
	rolls, err := repos.Dice.ListByPair(ctx, pairKey, 20)
	require.NoError(t, err)
	assert.Len(t, rolls, 1)

	drawing := &models.Drawing{ID: uuid.NewString(), PairKey: pairKey, CreatedBy: userID, CreatedByName: "A", ImageURL: "https://img.example.com/x.png", CreatedAt: base}
	require.NoError(t, repos.Drawings.Create(ctx, drawing))
	assert.ErrorIs(t, repos.Drawings.Delete(ctx, drawing.ID, "someone-else"), repository.ErrNotFound)
	require.NoError(t, repos.Drawings.Delete(ctx, drawing.ID, userID))

	_, err = repos.Fantasy.Get(ctx, userID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, repos.Fantasy.Upsert(ctx, &models.FantasyProfile{UserID: userID, Answers: map[string]string{"massage": "yes"}, UpdatedAt: base}))
	profile, err := repos.Fantasy.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "yes", profile.Answers["massage"])

	idea := &models.DateIdea{ID: uuid.NewString(), PairKey: pairKey, Title: "Picnic", Description: "d", Budget: "low", Mood: "fun", LocationType: "outdoor", Tips: []string{"a"}, CreatedAt: base}
	require.NoError(t, repos.DateIdeas.Create(ctx, idea))
	require.NoError(t, repos.DateIdeas.SetFavorite(ctx, idea.ID, true))
	require.NoError(t, repos.DateIdeas.SetCompleted(ctx, idea.ID, true))
	gotIdea, err := repos.DateIdeas.GetByID(ctx, idea.ID)
	require.NoError(t, err)
	assert.True(t, gotIdea.IsFavorite)
	assert.True(t, gotIdea.IsCompleted)
	assert.ErrorIs(t, repos.DateIdeas.SetFavorite(ctx, "missing", true), repository.ErrNotFound)
}
