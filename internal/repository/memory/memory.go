// Package memory implements the repository stores in process memory. It backs
// the "memory" database driver and the service and handler tests.
package memory

import (
	"slices"
	"sort"
	"sync"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"
)

type scoreKey struct {
	userID  string
	pairKey string
}

// db holds every collection behind one lock
type db struct {
	mu sync.RWMutex

	users        map[string]*models.User
	pairingCodes map[string]*models.PairingCode
	streaks      map[string]*models.Streak
	questions    []*models.Question
	trivia       []*models.Trivia
	scores       map[scoreKey]*models.TriviaScore
	notes        []*models.LoveNote
	dateIdeas    []*models.DateIdea
	memories     []*models.Memory
	moods        []*models.MoodCheckin
	coupons      []*models.Coupon
	bucket       []*models.BucketItem
	touches      map[string]*models.ThumbTouch
	dice         []*models.DiceRoll
	drawings     []*models.Drawing
	fantasy      map[string]*models.FantasyProfile
}

// New returns an empty set of in-memory stores
func New() *repository.Repositories {
	d := &db{
		users:        make(map[string]*models.User),
		pairingCodes: make(map[string]*models.PairingCode),
		streaks:      make(map[string]*models.Streak),
		scores:       make(map[scoreKey]*models.TriviaScore),
		touches:      make(map[string]*models.ThumbTouch),
		fantasy:      make(map[string]*models.FantasyProfile),
	}
	return &repository.Repositories{
		Users:        &userStore{d},
		PairingCodes: &pairingCodeStore{d},
		Streaks:      &streakStore{d},
		Questions:    &questionStore{d},
		Trivia:       &triviaStore{d},
		TriviaScores: &triviaScoreStore{d},
		Notes:        &noteStore{d},
		DateIdeas:    &dateIdeaStore{d},
		Memories:     &memoryStore{d},
		Moods:        &moodStore{d},
		Coupons:      &couponStore{d},
		Bucket:       &bucketStore{d},
		ThumbTouches: &thumbTouchStore{d},
		Dice:         &diceStore{d},
		Drawings:     &drawingStore{d},
		Fantasy:      &fantasyStore{d},
	}
}

// newestFirst returns up to limit copies of the items matching keep, ordered
// by less. Later insertions win ties.
func newestFirst[T any](items []*T, keep func(*T) bool, less func(a, b *T) bool, clone func(*T) *T, limit int) []*T {
	out := []*T{}
	for i := len(items) - 1; i >= 0; i-- {
		if keep(items[i]) {
			out = append(out, clone(items[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func find[T any](items []*T, match func(*T) bool) (int, *T) {
	for i, item := range items {
		if match(item) {
			return i, item
		}
	}
	return -1, nil
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.PartnerID = copyPtr(u.PartnerID)
	c.PartnerName = copyPtr(u.PartnerName)
	c.PushToken = copyPtr(u.PushToken)
	c.WebPush = copyPtr(u.WebPush)
	return &c
}

func cloneStreak(s *models.Streak) *models.Streak {
	c := *s
	c.LastAnsweredDate = copyPtr(s.LastAnsweredDate)
	c.MilestonesReached = slices.Clone(s.MilestonesReached)
	if c.MilestonesReached == nil {
		c.MilestonesReached = []int{}
	}
	return &c
}

func cloneQuestion(q *models.Question) *models.Question {
	c := *q
	c.Answers = copyMap(q.Answers)
	c.Reactions = copyMap(q.Reactions)
	return &c
}

func cloneTrivia(t *models.Trivia) *models.Trivia {
	c := *t
	c.Options = slices.Clone(t.Options)
	c.CorrectAnswer = copyPtr(t.CorrectAnswer)
	c.Guesses = copyMap(t.Guesses)
	return &c
}

func cloneNote(n *models.LoveNote) *models.LoveNote {
	c := *n
	c.Emoji = copyPtr(n.Emoji)
	return &c
}

func cloneDateIdea(d *models.DateIdea) *models.DateIdea {
	c := *d
	c.Tips = slices.Clone(d.Tips)
	return &c
}

func cloneMemory(m *models.Memory) *models.Memory {
	c := *m
	c.Description = copyPtr(m.Description)
	c.PhotoURL = copyPtr(m.PhotoURL)
	return &c
}

func cloneMood(m *models.MoodCheckin) *models.MoodCheckin {
	c := *m
	c.Note = copyPtr(m.Note)
	return &c
}

func cloneCoupon(cp *models.Coupon) *models.Coupon {
	c := *cp
	c.Description = copyPtr(cp.Description)
	c.Emoji = copyPtr(cp.Emoji)
	c.RedeemedAt = copyPtr(cp.RedeemedAt)
	return &c
}

func cloneBucketItem(b *models.BucketItem) *models.BucketItem {
	c := *b
	c.CompletedBy = copyPtr(b.CompletedBy)
	c.CompletedAt = copyPtr(b.CompletedAt)
	return &c
}

func cloneDrawing(d *models.Drawing) *models.Drawing {
	c := *d
	c.Caption = copyPtr(d.Caption)
	return &c
}

func cloneFantasy(p *models.FantasyProfile) *models.FantasyProfile {
	c := *p
	c.Answers = copyMap(p.Answers)
	return &c
}

func createdDesc[T any](at func(*T) time.Time) func(a, b *T) bool {
	return func(a, b *T) bool { return at(a).After(at(b)) }
}
