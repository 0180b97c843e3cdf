package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	codeLength      = 6
	codeChars       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeTTL         = 24 * time.Hour
	maxCodeAttempts = 10
)

// PairService handles pairing two accounts
type PairService struct {
	users repository.UserStore
	codes repository.PairingCodeStore
	hub   *WSHub
	now   func() time.Time
}

// NewPairService creates a new pair service
func NewPairService(users repository.UserStore, codes repository.PairingCodeStore, hub *WSHub) *PairService {
	return &PairService{
		users: users,
		codes: codes,
		hub:   hub,
		now:   time.Now,
	}
}

// ConnectRequest is the payload of POST /pairing/connect
type ConnectRequest struct {
	Code string `json:"code" validate:"required"`
}

// PairingCodeResponse is returned by POST /pairing/generate
type PairingCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// generateCode generates a random 6-character code
func generateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		if err != nil {
			return "", err
		}
		code[i] = codeChars[n.Int64()]
	}
	return string(code), nil
}

// GenerateCode issues a fresh pairing code, replacing any earlier code of the user
func (s *PairService) GenerateCode(ctx context.Context, user *models.User) (*PairingCodeResponse, error) {
	if user.HasPartner() {
		return nil, ErrAlreadyPaired
	}
	if err := s.codes.DeleteByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to delete previous codes: %w", err)
	}

	now := s.now().UTC()
	for range maxCodeAttempts {
		code, err := generateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
		pc := &models.PairingCode{
			Code:      code,
			UserID:    user.ID,
			UserName:  user.Name,
			ExpiresAt: now.Add(codeTTL),
			CreatedAt: now,
		}
		err = s.codes.Create(ctx, pc)
		if isDuplicate(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store pairing code: %w", err)
		}
		return &PairingCodeResponse{Code: pc.Code, ExpiresAt: pc.ExpiresAt}, nil
	}
	return nil, ErrCodeGeneration
}

// Connect pairs the user with the owner of code
func (s *PairService) Connect(ctx context.Context, user *models.User, code string) (*models.User, error) {
	if user.HasPartner() {
		return nil, ErrAlreadyPaired
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	pc, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get pairing code: %w", err)
	}

	if pc.Expired(s.now()) {
		if err := s.codes.Delete(ctx, pc.Code); err != nil && !isNotFound(err) {
			log.Error().Err(err).Str("code", pc.Code).Msg("Failed to delete expired pairing code")
		}
		return nil, ErrCodeExpired
	}

	if pc.UserID == user.ID {
		return nil, ErrSelfPairing
	}

	owner, err := s.users.GetByID(ctx, pc.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get code owner: %w", err)
	}
	if owner.HasPartner() {
		return nil, ErrPartnerTaken
	}

	if err := s.users.SetPartner(ctx, user.ID, &owner.ID, &owner.Name); err != nil {
		return nil, fmt.Errorf("failed to set partner: %w", err)
	}
	if err := s.users.SetPartner(ctx, owner.ID, &user.ID, &user.Name); err != nil {
		return nil, fmt.Errorf("failed to set partner: %w", err)
	}
	if err := s.codes.Delete(ctx, pc.Code); err != nil && !isNotFound(err) {
		log.Error().Err(err).Str("code", pc.Code).Msg("Failed to delete used pairing code")
	}

	log.Info().
		Str("user_id", user.ID).
		Str("partner_id", owner.ID).
		Msg("Users paired")

	s.hub.Notify(owner.ID, EventPartnerConnected, map[string]string{
		"partner_id":   user.ID,
		"partner_name": user.Name,
	})

	return s.users.GetByID(ctx, user.ID)
}

// Disconnect unpairs the user. Shared documents stay under the old pair key.
func (s *PairService) Disconnect(ctx context.Context, user *models.User) (*models.User, error) {
	partnerID, _, err := requirePartner(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetPartner(ctx, user.ID, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to clear partner: %w", err)
	}

	partner, err := s.users.GetByID(ctx, partnerID)
	switch {
	case err == nil && partner.PartnerIDValue() == user.ID:
		if err := s.users.SetPartner(ctx, partnerID, nil, nil); err != nil {
			return nil, fmt.Errorf("failed to clear partner of partner: %w", err)
		}
	case err != nil && !isNotFound(err):
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("partner_id", partnerID).
		Msg("Users unpaired")

	s.hub.Notify(partnerID, EventPartnerDisconnected, map[string]string{"partner_id": user.ID})

	return s.users.GetByID(ctx, user.ID)
}
