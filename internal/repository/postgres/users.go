package postgres

import (
	"context"
	"fmt"

	"candle-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, name, partner_id, partner_name, push_token, web_push, created_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.PartnerID,
		&user.PartnerName, &user.PushToken, &user.WebPush, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.PartnerID,
		user.PartnerName, user.PushToken, user.WebPush, user.CreatedAt,
	)
	if err != nil {
		return insertErr("user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, getErr("user", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, getErr("user", err)
	}
	return user, nil
}

// SetPartner sets or clears the partner of a user
func (r *UserRepository) SetPartner(ctx context.Context, userID string, partnerID, partnerName *string) error {
	query := `UPDATE users SET partner_id = $1, partner_name = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, partnerID, partnerName, userID)
	return affected("user", tag, err)
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, pushToken, userID)
	return affected("user", tag, err)
}

// UpdateWebPush stores the browser push subscription of a user
func (r *UserRepository) UpdateWebPush(ctx context.Context, userID string, sub *models.WebPushSubscription) error {
	query := `UPDATE users SET web_push = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, sub, userID)
	return affected("user", tag, err)
}

// PairingCodeRepository handles database operations for pairing codes
type PairingCodeRepository struct {
	db *pgxpool.Pool
}

// NewPairingCodeRepository creates a new pairing code repository
func NewPairingCodeRepository(db *pgxpool.Pool) *PairingCodeRepository {
	return &PairingCodeRepository{db: db}
}

// Create stores a pairing code
func (r *PairingCodeRepository) Create(ctx context.Context, code *models.PairingCode) error {
	query := `
		INSERT INTO pairing_codes (code, user_id, user_name, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, code.Code, code.UserID, code.UserName, code.ExpiresAt, code.CreatedAt)
	if err != nil {
		return insertErr("pairing code", err)
	}
	return nil
}

// GetByCode retrieves a pairing code
func (r *PairingCodeRepository) GetByCode(ctx context.Context, code string) (*models.PairingCode, error) {
	query := `
		SELECT code, user_id, user_name, expires_at, created_at
		FROM pairing_codes
		WHERE code = $1
	`
	var pc models.PairingCode
	err := r.db.QueryRow(ctx, query, code).Scan(
		&pc.Code, &pc.UserID, &pc.UserName, &pc.ExpiresAt, &pc.CreatedAt,
	)
	if err != nil {
		return nil, getErr("pairing code", err)
	}
	return &pc, nil
}

// Delete removes a pairing code. Deleting a missing code is not an error.
func (r *PairingCodeRepository) Delete(ctx context.Context, code string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM pairing_codes WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete pairing code: %w", err)
	}
	return nil
}

// DeleteByUser removes every pairing code issued by a user
func (r *PairingCodeRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM pairing_codes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete pairing codes: %w", err)
	}
	return nil
}
