package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/google/uuid"
)

const memoryLimit = 100

// MemoryService handles the couple's memory timeline
type MemoryService struct {
	memories repository.MemoryStore
	now      func() time.Time
}

// NewMemoryService creates a new memory service
func NewMemoryService(memories repository.MemoryStore) *MemoryService {
	return &MemoryService{memories: memories, now: time.Now}
}

// MemoryRequest is the payload of POST /memories
type MemoryRequest struct {
	Title       string  `json:"title" validate:"max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Date        string  `json:"date"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
}

// Create adds a memory to the timeline
func (s *MemoryService) Create(ctx context.Context, user *models.User, req MemoryRequest) (*models.Memory, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, ErrInvalidDate
	}

	m := &models.Memory{
		ID:            uuid.New().String(),
		PairKey:       pairKey,
		Title:         title,
		Description:   req.Description,
		Date:          req.Date,
		PhotoURL:      req.PhotoURL,
		CreatedBy:     user.ID,
		CreatedByName: user.Name,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.memories.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}
	return m, nil
}

// List returns the couple's memories by date, newest first
func (s *MemoryService) List(ctx context.Context, user *models.User) ([]*models.Memory, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	memories, err := s.memories.ListByPair(ctx, pairKey, memoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	return memories, nil
}

// Delete removes a memory created by the user
func (s *MemoryService) Delete(ctx context.Context, user *models.User, id string) error {
	if err := s.memories.Delete(ctx, id, user.ID); err != nil {
		if isNotFound(err) {
			return ErrMemoryNotFound
		}
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	return nil
}
