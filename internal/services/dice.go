package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"candle-backend/internal/content"
	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/google/uuid"
)

const diceHistoryLimit = 20

// DiceService rolls the spicy dice
type DiceService struct {
	rolls repository.DiceStore
	hub   *WSHub
	now   func() time.Time
	intn  func(int) int
}

// NewDiceService creates a new dice service
func NewDiceService(rolls repository.DiceStore, hub *WSHub) *DiceService {
	return &DiceService{rolls: rolls, hub: hub, now: time.Now, intn: rand.IntN}
}

// RollRequest is the payload of POST /spicy-dice/roll
type RollRequest struct {
	Intensity string `json:"intensity"`
}

// Roll throws the action and target dice of an intensity, mild by default
func (s *DiceService) Roll(ctx context.Context, user *models.User, intensity string) (*models.DiceRoll, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if intensity == "" {
		intensity = content.DiceIntensities[0]
	}
	dice, ok := content.DiceFor(intensity)
	if !ok {
		return nil, invalid("Intensity must be one of: " + strings.Join(content.DiceIntensities, ", "))
	}

	roll := &models.DiceRoll{
		ID:           uuid.New().String(),
		PairKey:      pairKey,
		RolledBy:     user.ID,
		RolledByName: user.Name,
		Intensity:    intensity,
		Action:       dice.Actions[s.intn(len(dice.Actions))],
		Target:       dice.Targets[s.intn(len(dice.Targets))],
		CreatedAt:    s.now().UTC(),
	}
	if err := s.rolls.Create(ctx, roll); err != nil {
		return nil, fmt.Errorf("failed to save roll: %w", err)
	}
	s.hub.Notify(partnerID, EventDiceRolled, roll)
	return roll, nil
}

// History lists the couple's latest rolls
func (s *DiceService) History(ctx context.Context, user *models.User) ([]*models.DiceRoll, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	rolls, err := s.rolls.ListByPair(ctx, pairKey, diceHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rolls: %w", err)
	}
	return rolls, nil
}
