package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"
)

const (
	touchActiveWindow = 3 * time.Second
	kissDistance      = 0.15
)

// ThumbKissService shares screen touches between partners. Each touch
// overwrites the previous one and clients poll for the partner's.
type ThumbKissService struct {
	touches repository.ThumbTouchStore
	hub     *WSHub
	now     func() time.Time
}

// NewThumbKissService creates a new thumb kiss service
func NewThumbKissService(touches repository.ThumbTouchStore, hub *WSHub) *ThumbKissService {
	return &ThumbKissService{touches: touches, hub: hub, now: time.Now}
}

// TouchRequest is the payload of POST /thumb-kiss with normalized coordinates
type TouchRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// ThumbKissStatus describes the partner's touch as seen by the caller
type ThumbKissStatus struct {
	PartnerTouching bool     `json:"partner_touching"`
	PartnerX        *float64 `json:"partner_x"`
	PartnerY        *float64 `json:"partner_y"`
	Kiss            bool     `json:"kiss"`
}

// Touch records the user's touch at x, y
func (s *ThumbKissService) Touch(ctx context.Context, user *models.User, x, y float64) (*ThumbKissStatus, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if x < 0 || x > 1 || y < 0 || y > 1 || math.IsNaN(x) || math.IsNaN(y) {
		return nil, ErrInvalidCoordinates
	}

	touch := &models.ThumbTouch{
		UserID:    user.ID,
		PairKey:   pairKey,
		X:         x,
		Y:         y,
		TouchedAt: s.now().UTC(),
	}
	if err := s.touches.Upsert(ctx, touch); err != nil {
		return nil, fmt.Errorf("failed to save touch: %w", err)
	}
	s.hub.Notify(partnerID, EventThumbTouch, map[string]float64{"x": x, "y": y})

	return s.status(ctx, touch, partnerID, pairKey)
}

// Status reports whether the partner is touching and whether the touches meet
func (s *ThumbKissService) Status(ctx context.Context, user *models.User) (*ThumbKissStatus, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	mine, err := s.activeTouch(ctx, user.ID, pairKey)
	if err != nil {
		return nil, err
	}
	return s.status(ctx, mine, partnerID, pairKey)
}

func (s *ThumbKissService) status(ctx context.Context, mine *models.ThumbTouch, partnerID, pairKey string) (*ThumbKissStatus, error) {
	theirs, err := s.activeTouch(ctx, partnerID, pairKey)
	if err != nil {
		return nil, err
	}
	st := &ThumbKissStatus{}
	if theirs == nil {
		return st, nil
	}
	st.PartnerTouching = true
	st.PartnerX, st.PartnerY = &theirs.X, &theirs.Y
	if mine != nil && s.active(mine) {
		st.Kiss = math.Hypot(mine.X-theirs.X, mine.Y-theirs.Y) <= kissDistance
	}
	return st, nil
}

// activeTouch returns the user's touch if it is recent and belongs to the
// current couple, nil otherwise
func (s *ThumbKissService) activeTouch(ctx context.Context, userID, pairKey string) (*models.ThumbTouch, error) {
	t, err := s.touches.Get(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get touch: %w", err)
	}
	if t.PairKey != pairKey || !s.active(t) {
		return nil, nil
	}
	return t, nil
}

func (s *ThumbKissService) active(t *models.ThumbTouch) bool {
	return s.now().Sub(t.TouchedAt) <= touchActiveWindow
}
