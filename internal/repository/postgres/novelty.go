package postgres

import (
	"context"
	"fmt"

	"candle-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ThumbTouchRepository handles database operations for thumb touches
type ThumbTouchRepository struct {
	db *pgxpool.Pool
}

// NewThumbTouchRepository creates a new thumb touch repository
func NewThumbTouchRepository(db *pgxpool.Pool) *ThumbTouchRepository {
	return &ThumbTouchRepository{db: db}
}

// Upsert replaces the latest touch of a user
func (r *ThumbTouchRepository) Upsert(ctx context.Context, t *models.ThumbTouch) error {
	query := `
		INSERT INTO thumb_touches (user_id, pair_key, x, y, touched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			pair_key = EXCLUDED.pair_key,
			x = EXCLUDED.x,
			y = EXCLUDED.y,
			touched_at = EXCLUDED.touched_at
	`
	if _, err := r.db.Exec(ctx, query, t.UserID, t.PairKey, t.X, t.Y, t.TouchedAt); err != nil {
		return fmt.Errorf("failed to save thumb touch: %w", err)
	}
	return nil
}

// Get retrieves the latest touch of a user
func (r *ThumbTouchRepository) Get(ctx context.Context, userID string) (*models.ThumbTouch, error) {
	query := `SELECT user_id, pair_key, x, y, touched_at FROM thumb_touches WHERE user_id = $1`
	var t models.ThumbTouch
	if err := r.db.QueryRow(ctx, query, userID).Scan(&t.UserID, &t.PairKey, &t.X, &t.Y, &t.TouchedAt); err != nil {
		return nil, getErr("thumb touch", err)
	}
	return &t, nil
}

const diceColumns = `id, pair_key, rolled_by, rolled_by_name, intensity, action, target, created_at`

// DiceRepository handles database operations for dice rolls
type DiceRepository struct {
	db *pgxpool.Pool
}

// NewDiceRepository creates a new dice roll repository
func NewDiceRepository(db *pgxpool.Pool) *DiceRepository {
	return &DiceRepository{db: db}
}

func scanDiceRoll(row pgx.Row) (*models.DiceRoll, error) {
	var d models.DiceRoll
	err := row.Scan(&d.ID, &d.PairKey, &d.RolledBy, &d.RolledByName, &d.Intensity, &d.Action, &d.Target, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create stores a dice roll
func (r *DiceRepository) Create(ctx context.Context, d *models.DiceRoll) error {
	query := `INSERT INTO dice_rolls (` + diceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, d.ID, d.PairKey, d.RolledBy, d.RolledByName, d.Intensity, d.Action, d.Target, d.CreatedAt)
	if err != nil {
		return insertErr("dice roll", err)
	}
	return nil
}

// ListByPair returns the newest rolls of a couple
func (r *DiceRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.DiceRoll, error) {
	query := `
		SELECT ` + diceColumns + `
		FROM dice_rolls
		WHERE pair_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get dice rolls: %w", err)
	}
	return collect(rows, "dice rolls", scanDiceRoll)
}

const drawingColumns = `id, pair_key, created_by, created_by_name, image_url, caption, created_at`

// DrawingRepository handles database operations for canvas drawings
type DrawingRepository struct {
	db *pgxpool.Pool
}

// NewDrawingRepository creates a new drawing repository
func NewDrawingRepository(db *pgxpool.Pool) *DrawingRepository {
	return &DrawingRepository{db: db}
}

func scanDrawing(row pgx.Row) (*models.Drawing, error) {
	var d models.Drawing
	if err := row.Scan(&d.ID, &d.PairKey, &d.CreatedBy, &d.CreatedByName, &d.ImageURL, &d.Caption, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create stores a drawing
func (r *DrawingRepository) Create(ctx context.Context, d *models.Drawing) error {
	query := `INSERT INTO drawings (` + drawingColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, d.ID, d.PairKey, d.CreatedBy, d.CreatedByName, d.ImageURL, d.Caption, d.CreatedAt)
	if err != nil {
		return insertErr("drawing", err)
	}
	return nil
}

// ListByPair returns the newest drawings of a couple
func (r *DrawingRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Drawing, error) {
	query := `
		SELECT ` + drawingColumns + `
		FROM drawings
		WHERE pair_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get drawings: %w", err)
	}
	return collect(rows, "drawings", scanDrawing)
}

// Delete removes a drawing created by createdBy
func (r *DrawingRepository) Delete(ctx context.Context, id, createdBy string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drawings WHERE id = $1 AND created_by = $2`, id, createdBy)
	return affected("drawing", tag, err)
}

// FantasyRepository handles database operations for fantasy profiles
type FantasyRepository struct {
	db *pgxpool.Pool
}

// NewFantasyRepository creates a new fantasy profile repository
func NewFantasyRepository(db *pgxpool.Pool) *FantasyRepository {
	return &FantasyRepository{db: db}
}

// Get retrieves the profile of a user
func (r *FantasyRepository) Get(ctx context.Context, userID string) (*models.FantasyProfile, error) {
	query := `SELECT user_id, answers, updated_at FROM fantasy_profiles WHERE user_id = $1`
	var p models.FantasyProfile
	if err := r.db.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Answers, &p.UpdatedAt); err != nil {
		return nil, getErr("fantasy profile", err)
	}
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	return &p, nil
}

// Upsert creates or replaces the profile of a user
func (r *FantasyRepository) Upsert(ctx context.Context, p *models.FantasyProfile) error {
	query := `
		INSERT INTO fantasy_profiles (user_id, answers, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			answers = EXCLUDED.answers,
			updated_at = EXCLUDED.updated_at
	`
	answers := p.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	if _, err := r.db.Exec(ctx, query, p.UserID, answers, p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save fantasy profile: %w", err)
	}
	return nil
}
