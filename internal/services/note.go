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
	"github.com/rs/zerolog/log"
)

const (
	maxNoteLength   = 500
	noteListLimit   = 50
	pushBodyPreview = 100
)

// NoteService handles love notes
type NoteService struct {
	notes    repository.NoteStore
	users    repository.UserStore
	hub      *WSHub
	notifier notify.Notifier
	now      func() time.Time
}

// NewNoteService creates a new note service
func NewNoteService(notes repository.NoteStore, users repository.UserStore, hub *WSHub, notifier notify.Notifier) *NoteService {
	return &NoteService{
		notes:    notes,
		users:    users,
		hub:      hub,
		notifier: notifier,
		now:      time.Now,
	}
}

// NoteRequest is the payload of POST /notes
type NoteRequest struct {
	Message string  `json:"message"`
	Emoji   *string `json:"emoji" validate:"omitempty,max=16"`
}

// Send writes a note to the partner and nudges them
func (s *NoteService) Send(ctx context.Context, user *models.User, req NoteRequest) (*models.LoveNote, error) {
	partnerID, _, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(req.Message) > maxNoteLength {
		return nil, ErrMessageTooLong
	}

	note := &models.LoveNote{
		ID:           uuid.New().String(),
		FromUserID:   user.ID,
		FromUserName: user.Name,
		ToUserID:     partnerID,
		Message:      req.Message,
		Emoji:        req.Emoji,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.hub.Notify(partnerID, EventLoveNote, note)
	pushToUser(ctx, s.users, s.notifier, partnerID, notify.Message{
		Title: user.Name + " sent you a love note",
		Body:  preview(note.Message),
		Kind:  EventLoveNote,
	})
	return note, nil
}

// Received lists notes addressed to the user, newest first
func (s *NoteService) Received(ctx context.Context, user *models.User) ([]*models.LoveNote, error) {
	if _, _, err := requirePartner(user); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListReceived(ctx, user.ID, noteListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Sent lists notes written by the user, newest first
func (s *NoteService) Sent(ctx context.Context, user *models.User) ([]*models.LoveNote, error) {
	notes, err := s.notes.ListSent(ctx, user.ID, noteListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// MarkRead marks an unread note addressed to the user as read
func (s *NoteService) MarkRead(ctx context.Context, user *models.User, noteID string) error {
	if err := s.notes.MarkRead(ctx, noteID, user.ID); err != nil {
		if isNotFound(err) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to mark note read: %w", err)
	}
	return nil
}

// UnreadCount counts the user's unread notes
func (s *NoteService) UnreadCount(ctx context.Context, user *models.User) (int, error) {
	n, err := s.notes.CountUnread(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notes: %w", err)
	}
	return n, nil
}

// pushToUser loads the recipient and hands msg to the notifier. Failures are
// logged and never reach the caller.
func pushToUser(ctx context.Context, users repository.UserStore, notifier notify.Notifier, userID string, msg notify.Message) {
	recipient, err := users.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load push recipient")
		return
	}
	notifier.Notify(ctx, recipient, msg)
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= pushBodyPreview {
		return s
	}
	return string([]rune(s)[:pushBodyPreview]) + "..."
}
