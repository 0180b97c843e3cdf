package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"
)

// StreakMilestones are the streak lengths celebrated once each
var StreakMilestones = []int{7, 14, 30, 60, 100, 365}

// StreakService maintains answer streaks
type StreakService struct {
	streaks repository.StreakStore
}

// NewStreakService creates a new streak service
func NewStreakService(streaks repository.StreakStore) *StreakService {
	return &StreakService{streaks: streaks}
}

// StreakResponse is returned by GET /streaks
type StreakResponse struct {
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	LastAnsweredDate *string `json:"last_answered_date"`
	Milestones       []int   `json:"milestones"`
}

// Get returns the user's streak, zeroed when none exists
func (s *StreakService) Get(ctx context.Context, userID string) (*StreakResponse, error) {
	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &StreakResponse{Milestones: []int{}}, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	milestones := streak.MilestonesReached
	if milestones == nil {
		milestones = []int{}
	}
	return &StreakResponse{
		CurrentStreak:    streak.CurrentStreak,
		LongestStreak:    streak.LongestStreak,
		LastAnsweredDate: streak.LastAnsweredDate,
		Milestones:       milestones,
	}, nil
}

// Update records that the user's couple completed the question of date
func (s *StreakService) Update(ctx context.Context, userID, date string) error {
	streak, err := s.streaks.Get(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("failed to get streak: %w", err)
		}
		streak = &models.Streak{UserID: userID, MilestonesReached: []int{}}
	}

	changed, err := advanceStreak(streak, date)
	if err != nil || !changed {
		return err
	}
	if err := s.streaks.Upsert(ctx, streak); err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// advanceStreak applies one answered date to streak. A repeat of the last
// date changes nothing, the following day extends the streak and any other
// date restarts it at one.
func advanceStreak(streak *models.Streak, date string) (bool, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return false, fmt.Errorf("invalid answered date %q: %w", date, err)
	}

	next := 1
	if streak.LastAnsweredDate != nil {
		if last, err := time.Parse(models.DateLayout, *streak.LastAnsweredDate); err == nil {
			switch int(day.Sub(last).Hours() / 24) {
			case 0:
				return false, nil
			case 1:
				next = streak.CurrentStreak + 1
			}
		}
	}

	streak.CurrentStreak = next
	streak.LastAnsweredDate = &date
	streak.LongestStreak = max(streak.LongestStreak, next)
	for _, m := range StreakMilestones {
		if next >= m && !slices.Contains(streak.MilestonesReached, m) {
			streak.MilestonesReached = append(streak.MilestonesReached, m)
		}
	}
	return true, nil
}
