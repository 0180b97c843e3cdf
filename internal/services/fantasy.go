package services

import (
	"context"
	"fmt"
	"time"

	"candle-backend/internal/content"
	"candle-backend/internal/models"
	"candle-backend/internal/repository"
)

// Fantasy answers
const (
	FantasyYes   = "yes"
	FantasyMaybe = "maybe"
	FantasyNo    = "no"
)

// FantasyService keeps each user's private fantasy answers and reveals only
// the items both partners are open to
type FantasyService struct {
	profiles repository.FantasyStore
	now      func() time.Time
}

// NewFantasyService creates a new fantasy service
func NewFantasyService(profiles repository.FantasyStore) *FantasyService {
	return &FantasyService{profiles: profiles, now: time.Now}
}

// FantasyProfileRequest is the payload of PUT /fantasy/profile
type FantasyProfileRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// FantasyMatch is a catalog item both partners answered yes or maybe
type FantasyMatch struct {
	content.FantasyItem
	BothYes bool `json:"both_yes"`
}

// Catalog lists the items users can answer
func (s *FantasyService) Catalog() []content.FantasyItem {
	return content.FantasyCatalog
}

// Get returns the user's own answers
func (s *FantasyService) Get(ctx context.Context, user *models.User) (*models.FantasyProfile, error) {
	return s.profile(ctx, user.ID)
}

func (s *FantasyService) profile(ctx context.Context, userID string) (*models.FantasyProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &models.FantasyProfile{UserID: userID, Answers: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to get fantasy profile: %w", err)
	}
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	return p, nil
}

// Update merges answers into the user's profile
func (s *FantasyService) Update(ctx context.Context, user *models.User, answers map[string]string) (*models.FantasyProfile, error) {
	for id, v := range answers {
		if _, ok := content.FantasyItemByID(id); !ok {
			return nil, ErrUnknownFantasyItem
		}
		if v != FantasyYes && v != FantasyMaybe && v != FantasyNo {
			return nil, ErrInvalidFantasyValue
		}
	}

	p, err := s.profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for id, v := range answers {
		p.Answers[id] = v
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save fantasy profile: %w", err)
	}
	return p, nil
}

// Matches lists the catalog items both partners are open to, in catalog order
func (s *FantasyService) Matches(ctx context.Context, user *models.User) ([]FantasyMatch, error) {
	partnerID, _, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	mine, err := s.profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.profile(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	matches := []FantasyMatch{}
	for _, item := range content.FantasyCatalog {
		a, b := mine.Answers[item.ID], theirs.Answers[item.ID]
		if receptive(a) && receptive(b) {
			matches = append(matches, FantasyMatch{FantasyItem: item, BothYes: a == FantasyYes && b == FantasyYes})
		}
	}
	return matches, nil
}

func receptive(answer string) bool {
	return answer == FantasyYes || answer == FantasyMaybe
}
