package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultMoodDays = 30
	maxMoodDays     = 365
)

// Moods are the accepted check-in values
var Moods = []string{"happy", "content", "neutral", "stressed", "sad"}

// MoodService handles daily mood check-ins
type MoodService struct {
	moods repository.MoodStore
	now   func() time.Time
}

// NewMoodService creates a new mood service
func NewMoodService(moods repository.MoodStore) *MoodService {
	return &MoodService{moods: moods, now: time.Now}
}

// MoodRequest is the payload of POST /mood
type MoodRequest struct {
	Mood string  `json:"mood"`
	Note *string `json:"note" validate:"omitempty,max=500"`
}

// TodayMoodResponse holds both partners' check-ins of today
type TodayMoodResponse struct {
	UserMood    *models.MoodCheckin `json:"user_mood"`
	PartnerMood *models.MoodCheckin `json:"partner_mood"`
}

// CheckIn records today's mood, replacing an earlier check-in of the same day
func (s *MoodService) CheckIn(ctx context.Context, user *models.User, req MoodRequest) (*models.MoodCheckin, error) {
	if !slices.Contains(Moods, req.Mood) {
		return nil, invalid("Mood must be one of: " + strings.Join(Moods, ", "))
	}
	now := s.now().UTC()
	m := &models.MoodCheckin{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		Mood:      req.Mood,
		Note:      req.Note,
		Date:      models.Day(now),
		CreatedAt: now,
	}
	if err := s.moods.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save mood: %w", err)
	}
	return m, nil
}

// Today returns today's check-ins of the user and, when paired, the partner
func (s *MoodService) Today(ctx context.Context, user *models.User) (*TodayMoodResponse, error) {
	date := models.Day(s.now())
	resp := &TodayMoodResponse{}

	var err error
	if resp.UserMood, err = s.checkin(ctx, user.ID, date); err != nil {
		return nil, err
	}
	if user.HasPartner() {
		if resp.PartnerMood, err = s.checkin(ctx, *user.PartnerID, date); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *MoodService) checkin(ctx context.Context, userID, date string) (*models.MoodCheckin, error) {
	m, err := s.moods.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mood: %w", err)
	}
	return m, nil
}

// History lists recent check-ins of the user and partner, newest date first.
// days is clamped to 1..365 and at most two check-ins per day are returned.
func (s *MoodService) History(ctx context.Context, user *models.User, days int) ([]*models.MoodCheckin, error) {
	days = min(max(days, 1), maxMoodDays)
	ids := []string{user.ID}
	if user.HasPartner() {
		ids = append(ids, *user.PartnerID)
	}
	moods, err := s.moods.ListByUsers(ctx, ids, days*2)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return moods, nil
}
