// Package services implements the business logic of every feature on top of
// the repository stores
package services

import (
	"time"

	"candle-backend/internal/media"
	"candle-backend/internal/notify"
	"candle-backend/internal/repository"
	"candle-backend/internal/textgen"
)

// Deps are the collaborators shared by all services
type Deps struct {
	Repos     *repository.Repositories
	Generator textgen.Generator
	Media     media.Store
	Notifier  notify.Notifier
	JWTSecret string
	JWTExpiry time.Duration
}

// Services bundles one instance of every service
type Services struct {
	Hub       *WSHub
	Users     *UserService
	Pairs     *PairService
	Streaks   *StreakService
	Questions *QuestionService
	Trivia    *TriviaService
	Notes     *NoteService
	Dates     *DateService
	Memories  *MemoryService
	Media     *MediaService
	Moods     *MoodService
	Coupons   *CouponService
	Bucket    *BucketService
	ThumbKiss *ThumbKissService
	Dice      *DiceService
	Canvas    *CanvasService
	Fantasy   *FantasyService
}

// New wires every service. A nil Generator disables text generation and a
// nil Notifier disables push notifications.
func New(d Deps) *Services {
	if d.Generator == nil {
		d.Generator = textgen.Disabled{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}
	r := d.Repos
	hub := NewWSHub()
	streaks := NewStreakService(r.Streaks)
	mediaService := NewMediaService(d.Media)

	return &Services{
		Hub:       hub,
		Users:     NewUserService(r.Users, r.Streaks, d.JWTSecret, d.JWTExpiry),
		Pairs:     NewPairService(r.Users, r.PairingCodes, hub),
		Streaks:   streaks,
		Questions: NewQuestionService(r.Questions, streaks, d.Generator),
		Trivia:    NewTriviaService(r.Trivia, r.TriviaScores, d.Generator),
		Notes:     NewNoteService(r.Notes, r.Users, hub, d.Notifier),
		Dates:     NewDateService(r.DateIdeas, d.Generator),
		Memories:  NewMemoryService(r.Memories),
		Media:     mediaService,
		Moods:     NewMoodService(r.Moods),
		Coupons:   NewCouponService(r.Coupons, r.Users, hub, d.Notifier),
		Bucket:    NewBucketService(r.Bucket),
		ThumbKiss: NewThumbKissService(r.ThumbTouches, hub),
		Dice:      NewDiceService(r.Dice, hub),
		Canvas:    NewCanvasService(r.Drawings, mediaService, hub),
		Fantasy:   NewFantasyService(r.Fantasy),
	}
}
