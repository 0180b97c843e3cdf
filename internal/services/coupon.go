package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"candle-backend/internal/models"
	"candle-backend/internal/notify"
	"candle-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	maxCouponTitle = 100
	couponLimit    = 50
)

// CouponService handles love coupons
type CouponService struct {
	coupons  repository.CouponStore
	users    repository.UserStore
	hub      *WSHub
	notifier notify.Notifier
	now      func() time.Time
}

// NewCouponService creates a new coupon service
func NewCouponService(coupons repository.CouponStore, users repository.UserStore, hub *WSHub, notifier notify.Notifier) *CouponService {
	return &CouponService{
		coupons:  coupons,
		users:    users,
		hub:      hub,
		notifier: notifier,
		now:      time.Now,
	}
}

// CouponRequest is the payload of POST /coupons
type CouponRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Emoji       *string `json:"emoji" validate:"omitempty,max=16"`
}

// CouponsResponse groups the coupons the user received and gave
type CouponsResponse struct {
	Received []*models.Coupon `json:"received"`
	Sent     []*models.Coupon `json:"sent"`
}

// Create gives the partner a coupon
func (s *CouponService) Create(ctx context.Context, user *models.User, req CouponRequest) (*models.Coupon, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(title); n < 1 || n > maxCouponTitle {
		return nil, ErrCouponTitle
	}

	c := &models.Coupon{
		ID:           uuid.New().String(),
		PairKey:      pairKey,
		FromUserID:   user.ID,
		FromUserName: user.Name,
		ToUserID:     partnerID,
		Title:        title,
		Description:  req.Description,
		Emoji:        req.Emoji,
		Status:       models.CouponActive,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	pushToUser(ctx, s.users, s.notifier, partnerID, notify.Message{
		Title: user.Name + " gave you a love coupon",
		Body:  preview(c.Title),
		Kind:  "coupon_received",
	})
	return c, nil
}

// List returns received and sent coupons, newest first
func (s *CouponService) List(ctx context.Context, user *models.User) (*CouponsResponse, error) {
	if _, _, err := requirePartner(user); err != nil {
		return nil, err
	}
	received, err := s.coupons.ListReceived(ctx, user.ID, couponLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list received coupons: %w", err)
	}
	sent, err := s.coupons.ListSent(ctx, user.ID, couponLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent coupons: %w", err)
	}
	return &CouponsResponse{Received: received, Sent: sent}, nil
}

// Redeem marks a received coupon as used and tells the giver
func (s *CouponService) Redeem(ctx context.Context, user *models.User, id string) (*models.Coupon, error) {
	c, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c.ToUserID != user.ID {
		return nil, ErrCouponNotFound
	}
	if c.Status == models.CouponRedeemed {
		return nil, ErrCouponRedeemed
	}

	at := s.now().UTC()
	if err := s.coupons.Redeem(ctx, id, at); err != nil {
		if isNotFound(err) {
			// redeemed concurrently
			return nil, ErrCouponRedeemed
		}
		return nil, fmt.Errorf("failed to redeem coupon: %w", err)
	}
	c.Status = models.CouponRedeemed
	c.RedeemedAt = &at

	s.hub.Notify(c.FromUserID, EventCouponRedeemed, c)
	pushToUser(ctx, s.users, s.notifier, c.FromUserID, notify.Message{
		Title: user.Name + " redeemed a coupon",
		Body:  preview(c.Title),
		Kind:  EventCouponRedeemed,
	})
	return c, nil
}
