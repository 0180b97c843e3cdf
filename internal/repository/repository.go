// Package repository declares the document stores the services depend on.
// Implementations live in the postgres, mongodb and memory subpackages and
// all of them honour the same contracts, including the sentinel errors below.
package repository

import (
	"context"
	"errors"
	"time"

	"candle-backend/internal/models"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key or a write precondition is violated.
	ErrDuplicate = errors.New("already exists")
)

// UserStore persists accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetPartner(ctx context.Context, userID string, partnerID, partnerName *string) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	UpdateWebPush(ctx context.Context, userID string, sub *models.WebPushSubscription) error
}

// PairingCodeStore persists pairing codes, keyed by code
type PairingCodeStore interface {
	Create(ctx context.Context, code *models.PairingCode) error
	GetByCode(ctx context.Context, code string) (*models.PairingCode, error)
	Delete(ctx context.Context, code string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// StreakStore persists one streak counter per user
type StreakStore interface {
	Get(ctx context.Context, userID string) (*models.Streak, error)
	Upsert(ctx context.Context, streak *models.Streak) error
}

// QuestionStore persists daily questions. Create returns ErrDuplicate when the
// couple already has a question for that date; SetAnswer returns ErrDuplicate
// when the user already answered.
type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	GetByPairAndDate(ctx context.Context, pairKey, date string) (*models.Question, error)
	ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Question, error)
	SetAnswer(ctx context.Context, id, userID string, answer models.Answer) error
	SetReaction(ctx context.Context, id, userID, reaction string) error
}

// TriviaStore persists trivia rounds
type TriviaStore interface {
	Create(ctx context.Context, t *models.Trivia) error
	GetByID(ctx context.Context, id string) (*models.Trivia, error)
	SetCorrectAnswer(ctx context.Context, id, answer string) error
	SetGuess(ctx context.Context, id, userID string, guess models.Guess) error
	ListPendingAbout(ctx context.Context, pairKey, userID string, limit int) ([]*models.Trivia, error)
}

// TriviaScoreStore persists per-couple trivia scores
type TriviaScoreStore interface {
	Get(ctx context.Context, userID, pairKey string) (*models.TriviaScore, error)
	// Increment adds points and correct to the score and counts one more question.
	Increment(ctx context.Context, userID, pairKey string, points, correct int) error
}

// NoteStore persists love notes. MarkRead returns ErrNotFound unless an unread
// note with that id is addressed to the user.
type NoteStore interface {
	Create(ctx context.Context, note *models.LoveNote) error
	ListReceived(ctx context.Context, userID string, limit int) ([]*models.LoveNote, error)
	ListSent(ctx context.Context, userID string, limit int) ([]*models.LoveNote, error)
	MarkRead(ctx context.Context, id, toUserID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// DateIdeaStore persists generated date ideas
type DateIdeaStore interface {
	Create(ctx context.Context, idea *models.DateIdea) error
	GetByID(ctx context.Context, id string) (*models.DateIdea, error)
	ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.DateIdea, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// MemoryStore persists timeline memories. Delete only removes a memory
// created by createdBy.
type MemoryStore interface {
	Create(ctx context.Context, m *models.Memory) error
	ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Memory, error)
	Delete(ctx context.Context, id, createdBy string) error
}

// MoodStore persists one check-in per user and day
type MoodStore interface {
	Upsert(ctx context.Context, m *models.MoodCheckin) error
	GetByUserAndDate(ctx context.Context, userID, date string) (*models.MoodCheckin, error)
	ListByUsers(ctx context.Context, userIDs []string, limit int) ([]*models.MoodCheckin, error)
}

// CouponStore persists love coupons. Redeem returns ErrNotFound unless the
// coupon is still active.
type CouponStore interface {
	Create(ctx context.Context, c *models.Coupon) error
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	ListReceived(ctx context.Context, userID string, limit int) ([]*models.Coupon, error)
	ListSent(ctx context.Context, userID string, limit int) ([]*models.Coupon, error)
	Redeem(ctx context.Context, id string, at time.Time) error
}

// BucketStore persists bucket-list items
type BucketStore interface {
	Create(ctx context.Context, item *models.BucketItem) error
	GetByID(ctx context.Context, id string) (*models.BucketItem, error)
	ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.BucketItem, error)
	SetCompleted(ctx context.Context, id string, completed bool, by *string, at *time.Time) error
	Delete(ctx context.Context, id string) error
}

// ThumbTouchStore persists the latest touch of each user
type ThumbTouchStore interface {
	Upsert(ctx context.Context, t *models.ThumbTouch) error
	Get(ctx context.Context, userID string) (*models.ThumbTouch, error)
}

// DiceStore persists spicy dice rolls
type DiceStore interface {
	Create(ctx context.Context, roll *models.DiceRoll) error
	ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.DiceRoll, error)
}

// DrawingStore persists canvas drawings. Delete only removes a drawing
// created by createdBy.
type DrawingStore interface {
	Create(ctx context.Context, d *models.Drawing) error
	ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Drawing, error)
	Delete(ctx context.Context, id, createdBy string) error
}

// FantasyStore persists fantasy profiles
type FantasyStore interface {
	Get(ctx context.Context, userID string) (*models.FantasyProfile, error)
	Upsert(ctx context.Context, p *models.FantasyProfile) error
}

// Repositories bundles every store of one backend
type Repositories struct {
	Users        UserStore
	PairingCodes PairingCodeStore
	Streaks      StreakStore
	Questions    QuestionStore
	Trivia       TriviaStore
	TriviaScores TriviaScoreStore
	Notes        NoteStore
	DateIdeas    DateIdeaStore
	Memories     MemoryStore
	Moods        MoodStore
	Coupons      CouponStore
	Bucket       BucketStore
	ThumbTouches ThumbTouchStore
	Dice         DiceStore
	Drawings     DrawingStore
	Fantasy      FantasyStore

	closeFn func(ctx context.Context) error
}

// OnClose registers the function that releases the backend's connections
func (r *Repositories) OnClose(fn func(ctx context.Context) error) {
	r.closeFn = fn
}

// Close releases the backend's connections
func (r *Repositories) Close(ctx context.Context) error {
	if r.closeFn == nil {
		return nil
	}
	return r.closeFn(ctx)
}
