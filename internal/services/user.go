package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts and access tokens
type UserService struct {
	users      repository.UserStore
	streaks    repository.StreakStore
	jwtSecret  []byte
	jwtExpiry  time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users repository.UserStore, streaks repository.StreakStore, jwtSecret string, jwtExpiry time.Duration) *UserService {
	return &UserService{
		users:      users,
		streaks:    streaks,
		jwtSecret:  []byte(jwtSecret),
		jwtExpiry:  jwtExpiry,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// RegisterRequest is the payload of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=100"`
}

// LoginRequest is the payload of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned after registration and login
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with an empty streak and signs the user in
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	streak := &models.Streak{UserID: user.ID, MilestonesReached: []int{}}
	if err := s.streaks.Upsert(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to create streak: %w", err)
	}

	return s.tokenResponse(user)
}

// Login verifies credentials and issues a token
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.tokenResponse(user)
}

func (s *UserService) tokenResponse(user *models.User) (*TokenResponse, error) {
	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// Authenticate resolves a bearer token to the current user
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ValidateJWT(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// PushTokenRequest is the payload of PUT /users/me/push-token
type PushTokenRequest struct {
	PushToken string `json:"push_token" validate:"max=200"`
}

// UpdatePushToken stores the APNs device token. An empty token clears it.
func (s *UserService) UpdatePushToken(ctx context.Context, user *models.User, token string) (*models.User, error) {
	var value *string
	if token = strings.TrimSpace(token); token != "" {
		value = &token
	}
	if err := s.users.UpdatePushToken(ctx, user.ID, value); err != nil {
		return nil, fmt.Errorf("failed to update push token: %w", err)
	}
	return s.GetUser(ctx, user.ID)
}

// WebPushRequest is a browser PushSubscription as serialized by the client
type WebPushRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// UpdateWebPush stores the user's browser push subscription
func (s *UserService) UpdateWebPush(ctx context.Context, user *models.User, req WebPushRequest) error {
	sub := &models.WebPushSubscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	}
	if err := s.users.UpdateWebPush(ctx, user.ID, sub); err != nil {
		return fmt.Errorf("failed to update web push subscription: %w", err)
	}
	return nil
}
