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

const bucketLimit = 200

// BucketCategories are the accepted bucket-list categories
var BucketCategories = []string{"travel", "adventure", "food", "learning", "romance", "home", "other"}

// BucketService handles the shared bucket list
type BucketService struct {
	items repository.BucketStore
	now   func() time.Time
}

// NewBucketService creates a new bucket service
func NewBucketService(items repository.BucketStore) *BucketService {
	return &BucketService{items: items, now: time.Now}
}

// BucketRequest is the payload of POST /bucket-list
type BucketRequest struct {
	Title    string `json:"title" validate:"max=200"`
	Category string `json:"category"`
}

// Create adds an item to the couple's list
func (s *BucketService) Create(ctx context.Context, user *models.User, req BucketRequest) (*models.BucketItem, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	category := req.Category
	if category == "" {
		category = "other"
	}
	if !slices.Contains(BucketCategories, category) {
		return nil, invalid("Category must be one of: " + strings.Join(BucketCategories, ", "))
	}

	item := &models.BucketItem{
		ID:            uuid.New().String(),
		PairKey:       pairKey,
		Title:         title,
		Category:      category,
		CreatedBy:     user.ID,
		CreatedByName: user.Name,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create bucket list item: %w", err)
	}
	return item, nil
}

// List returns open items first, then completed ones, newest first within each
func (s *BucketService) List(ctx context.Context, user *models.User) ([]*models.BucketItem, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByPair(ctx, pairKey, bucketLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket list: %w", err)
	}
	return items, nil
}

func (s *BucketService) pairItem(ctx context.Context, user *models.User, id string) (*models.BucketItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBucketItemNotFound
		}
		return nil, fmt.Errorf("failed to get bucket list item: %w", err)
	}
	if item.PairKey != user.PairKey() {
		return nil, ErrBucketItemNotFound
	}
	return item, nil
}

// Toggle flips completion, recording who completed the item and when
func (s *BucketService) Toggle(ctx context.Context, user *models.User, id string) (*models.BucketItem, error) {
	item, err := s.pairItem(ctx, user, id)
	if err != nil {
		return nil, err
	}

	item.IsCompleted = !item.IsCompleted
	item.CompletedBy, item.CompletedAt = nil, nil
	if item.IsCompleted {
		by, at := user.ID, s.now().UTC()
		item.CompletedBy, item.CompletedAt = &by, &at
	}
	if err := s.items.SetCompleted(ctx, id, item.IsCompleted, item.CompletedBy, item.CompletedAt); err != nil {
		return nil, fmt.Errorf("failed to update bucket list item: %w", err)
	}
	return item, nil
}

// Delete removes an item of the couple's list
func (s *BucketService) Delete(ctx context.Context, user *models.User, id string) error {
	if _, err := s.pairItem(ctx, user, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrBucketItemNotFound
		}
		return fmt.Errorf("failed to delete bucket list item: %w", err)
	}
	return nil
}
