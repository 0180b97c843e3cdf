package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"candle-backend/internal/content"
	"candle-backend/internal/models"
	"candle-backend/internal/repository"
	"candle-backend/internal/textgen"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const dateIdeaLimit = 50

var (
	DateBudgets   = []string{"low", "medium", "high"}
	DateMoods     = []string{"romantic", "adventurous", "relaxed", "fun"}
	DateLocations = []string{"indoor", "outdoor", "any"}
)

// DateService generates and tracks date ideas
type DateService struct {
	ideas repository.DateIdeaStore
	gen   textgen.Generator
	now   func() time.Time
}

// NewDateService creates a new date service
func NewDateService(ideas repository.DateIdeaStore, gen textgen.Generator) *DateService {
	return &DateService{ideas: ideas, gen: gen, now: time.Now}
}

// DateIdeaRequest is the payload of POST /dates/generate. Empty fields take
// their defaults.
type DateIdeaRequest struct {
	Budget       string `json:"budget"`
	Mood         string `json:"mood"`
	LocationType string `json:"location_type"`
}

func (r *DateIdeaRequest) normalize() error {
	if r.Budget == "" {
		r.Budget = "medium"
	}
	if r.Mood == "" {
		r.Mood = "romantic"
	}
	if r.LocationType == "" {
		r.LocationType = "any"
	}
	switch {
	case !slices.Contains(DateBudgets, r.Budget):
		return invalid("budget must be one of: " + strings.Join(DateBudgets, ", "))
	case !slices.Contains(DateMoods, r.Mood):
		return invalid("mood must be one of: " + strings.Join(DateMoods, ", "))
	case !slices.Contains(DateLocations, r.LocationType):
		return invalid("location_type must be one of: " + strings.Join(DateLocations, ", "))
	}
	return nil
}

// Generate creates and stores a date idea for the couple
func (s *DateService) Generate(ctx context.Context, user *models.User, req DateIdeaRequest) (*models.DateIdea, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	idea := s.generate(ctx, req)
	d := &models.DateIdea{
		ID:           uuid.New().String(),
		PairKey:      pairKey,
		Title:        idea.Title,
		Description:  idea.Description,
		Budget:       req.Budget,
		Mood:         req.Mood,
		LocationType: req.LocationType,
		Tips:         idea.Tips,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.ideas.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create date idea: %w", err)
	}
	return d, nil
}

func (s *DateService) generate(ctx context.Context, req DateIdeaRequest) content.DateIdea {
	raw, err := s.gen.Generate(ctx, content.DateSystem, content.DatePrompt(req.Budget, req.Mood, req.LocationType))
	if err != nil {
		log.Warn().Err(err).Str("mood", req.Mood).Msg("Date idea generation failed, using fallback")
		return content.FallbackDate(req.Mood)
	}
	idea, ok := content.ParseDateIdea(raw)
	if !ok {
		log.Warn().Str("mood", req.Mood).Msg("Unparseable date idea, using fallback")
		return content.FallbackDate(req.Mood)
	}
	return idea
}

// List returns the couple's date ideas, newest first
func (s *DateService) List(ctx context.Context, user *models.User) ([]*models.DateIdea, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	ideas, err := s.ideas.ListByPair(ctx, pairKey, dateIdeaLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list date ideas: %w", err)
	}
	return ideas, nil
}

func (s *DateService) pairIdea(ctx context.Context, user *models.User, id string) (*models.DateIdea, error) {
	idea, err := s.ideas.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDateIdeaNotFound
		}
		return nil, fmt.Errorf("failed to get date idea: %w", err)
	}
	if idea.PairKey != user.PairKey() {
		return nil, ErrDateIdeaNotFound
	}
	return idea, nil
}

// ToggleFavorite flips the favourite flag and returns the new value
func (s *DateService) ToggleFavorite(ctx context.Context, user *models.User, id string) (bool, error) {
	idea, err := s.pairIdea(ctx, user, id)
	if err != nil {
		return false, err
	}
	if err := s.ideas.SetFavorite(ctx, id, !idea.IsFavorite); err != nil {
		return false, fmt.Errorf("failed to update date idea: %w", err)
	}
	return !idea.IsFavorite, nil
}

// ToggleCompleted flips the completed flag and returns the new value
func (s *DateService) ToggleCompleted(ctx context.Context, user *models.User, id string) (bool, error) {
	idea, err := s.pairIdea(ctx, user, id)
	if err != nil {
		return false, err
	}
	if err := s.ideas.SetCompleted(ctx, id, !idea.IsCompleted); err != nil {
		return false, fmt.Errorf("failed to update date idea: %w", err)
	}
	return !idea.IsCompleted, nil
}
