package postgres

import (
	"context"
	"fmt"
	"time"

	"candle-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const noteColumns = `id, from_user_id, from_user_name, to_user_id, message, emoji, is_read, created_at`

// NoteRepository handles database operations for love notes
type NoteRepository struct {
	db *pgxpool.Pool
}

// NewNoteRepository creates a new love note repository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

func scanNote(row pgx.Row) (*models.LoveNote, error) {
	var n models.LoveNote
	err := row.Scan(&n.ID, &n.FromUserID, &n.FromUserName, &n.ToUserID, &n.Message, &n.Emoji, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create stores a love note
func (r *NoteRepository) Create(ctx context.Context, n *models.LoveNote) error {
	query := `INSERT INTO love_notes (` + noteColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, n.ID, n.FromUserID, n.FromUserName, n.ToUserID, n.Message, n.Emoji, n.IsRead, n.CreatedAt)
	if err != nil {
		return insertErr("love note", err)
	}
	return nil
}

func (r *NoteRepository) list(ctx context.Context, column, userID string, limit int) ([]*models.LoveNote, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM love_notes
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get love notes: %w", err)
	}
	return collect(rows, "love notes", scanNote)
}

// ListReceived returns the newest notes addressed to a user
func (r *NoteRepository) ListReceived(ctx context.Context, userID string, limit int) ([]*models.LoveNote, error) {
	return r.list(ctx, "to_user_id", userID, limit)
}

// ListSent returns the newest notes written by a user
func (r *NoteRepository) ListSent(ctx context.Context, userID string, limit int) ([]*models.LoveNote, error) {
	return r.list(ctx, "from_user_id", userID, limit)
}

// MarkRead flags an unread note addressed to toUserID as read
func (r *NoteRepository) MarkRead(ctx context.Context, id, toUserID string) error {
	query := `UPDATE love_notes SET is_read = TRUE WHERE id = $1 AND to_user_id = $2 AND NOT is_read`
	tag, err := r.db.Exec(ctx, query, id, toUserID)
	return affected("love note", tag, err)
}

// CountUnread counts unread notes addressed to a user
func (r *NoteRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM love_notes WHERE to_user_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count love notes: %w", err)
	}
	return count, nil
}

const dateIdeaColumns = `id, pair_key, title, description, budget, mood, location_type, tips, is_favorite, is_completed, created_at`

// DateIdeaRepository handles database operations for date ideas
type DateIdeaRepository struct {
	db *pgxpool.Pool
}

// NewDateIdeaRepository creates a new date idea repository
func NewDateIdeaRepository(db *pgxpool.Pool) *DateIdeaRepository {
	return &DateIdeaRepository{db: db}
}

func scanDateIdea(row pgx.Row) (*models.DateIdea, error) {
	var d models.DateIdea
	err := row.Scan(
		&d.ID, &d.PairKey, &d.Title, &d.Description, &d.Budget, &d.Mood,
		&d.LocationType, &d.Tips, &d.IsFavorite, &d.IsCompleted, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create stores a date idea
func (r *DateIdeaRepository) Create(ctx context.Context, d *models.DateIdea) error {
	query := `INSERT INTO date_ideas (` + dateIdeaColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		d.ID, d.PairKey, d.Title, d.Description, d.Budget, d.Mood,
		d.LocationType, d.Tips, d.IsFavorite, d.IsCompleted, d.CreatedAt,
	)
	if err != nil {
		return insertErr("date idea", err)
	}
	return nil
}

// GetByID retrieves a date idea by ID
func (r *DateIdeaRepository) GetByID(ctx context.Context, id string) (*models.DateIdea, error) {
	d, err := scanDateIdea(r.db.QueryRow(ctx, `SELECT `+dateIdeaColumns+` FROM date_ideas WHERE id = $1`, id))
	if err != nil {
		return nil, getErr("date idea", err)
	}
	return d, nil
}

// ListByPair returns the newest date ideas of a couple
func (r *DateIdeaRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.DateIdea, error) {
	query := `
		SELECT ` + dateIdeaColumns + `
		FROM date_ideas
		WHERE pair_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get date ideas: %w", err)
	}
	return collect(rows, "date ideas", scanDateIdea)
}

// SetFavorite updates the favorite flag
func (r *DateIdeaRepository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE date_ideas SET is_favorite = $1 WHERE id = $2`, favorite, id)
	return affected("date idea", tag, err)
}

// SetCompleted updates the completed flag
func (r *DateIdeaRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE date_ideas SET is_completed = $1 WHERE id = $2`, completed, id)
	return affected("date idea", tag, err)
}

const memoryColumns = `id, pair_key, title, description, date, photo_url, created_by, created_by_name, created_at`

// MemoryRepository handles database operations for timeline memories
type MemoryRepository struct {
	db *pgxpool.Pool
}

// NewMemoryRepository creates a new memory repository
func NewMemoryRepository(db *pgxpool.Pool) *MemoryRepository {
	return &MemoryRepository{db: db}
}

func scanMemory(row pgx.Row) (*models.Memory, error) {
	var m models.Memory
	err := row.Scan(&m.ID, &m.PairKey, &m.Title, &m.Description, &m.Date, &m.PhotoURL, &m.CreatedBy, &m.CreatedByName, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create stores a memory
func (r *MemoryRepository) Create(ctx context.Context, m *models.Memory) error {
	query := `INSERT INTO memories (` + memoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, m.ID, m.PairKey, m.Title, m.Description, m.Date, m.PhotoURL, m.CreatedBy, m.CreatedByName, m.CreatedAt)
	if err != nil {
		return insertErr("memory", err)
	}
	return nil
}

// ListByPair returns the memories of a couple, latest date first
func (r *MemoryRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Memory, error) {
	query := `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE pair_key = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get memories: %w", err)
	}
	return collect(rows, "memories", scanMemory)
}

// Delete removes a memory created by createdBy
func (r *MemoryRepository) Delete(ctx context.Context, id, createdBy string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM memories WHERE id = $1 AND created_by = $2`, id, createdBy)
	return affected("memory", tag, err)
}

const moodColumns = `id, user_id, user_name, mood, note, date, created_at`

// MoodRepository handles database operations for mood check-ins
type MoodRepository struct {
	db *pgxpool.Pool
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *pgxpool.Pool) *MoodRepository {
	return &MoodRepository{db: db}
}

func scanMood(row pgx.Row) (*models.MoodCheckin, error) {
	var m models.MoodCheckin
	if err := row.Scan(&m.ID, &m.UserID, &m.UserName, &m.Mood, &m.Note, &m.Date, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert stores the check-in of a user for its date. An existing check-in
// keeps its id and m.ID is updated to it.
func (r *MoodRepository) Upsert(ctx context.Context, m *models.MoodCheckin) error {
	query := `
		INSERT INTO mood_checkins (` + moodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			user_name = EXCLUDED.user_name,
			mood = EXCLUDED.mood,
			note = EXCLUDED.note,
			created_at = EXCLUDED.created_at
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, m.ID, m.UserID, m.UserName, m.Mood, m.Note, m.Date, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to save mood: %w", err)
	}
	return nil
}

// GetByUserAndDate retrieves the check-in of a user for one day
func (r *MoodRepository) GetByUserAndDate(ctx context.Context, userID, date string) (*models.MoodCheckin, error) {
	query := `SELECT ` + moodColumns + ` FROM mood_checkins WHERE user_id = $1 AND date = $2`
	m, err := scanMood(r.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		return nil, getErr("mood", err)
	}
	return m, nil
}

// ListByUsers returns the latest check-ins of the given users
func (r *MoodRepository) ListByUsers(ctx context.Context, userIDs []string, limit int) ([]*models.MoodCheckin, error) {
	query := `
		SELECT ` + moodColumns + `
		FROM mood_checkins
		WHERE user_id = ANY($1)
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get moods: %w", err)
	}
	return collect(rows, "moods", scanMood)
}

const couponColumns = `id, pair_key, from_user_id, from_user_name, to_user_id, title, description, emoji, status, redeemed_at, created_at`

// CouponRepository handles database operations for love coupons
type CouponRepository struct {
	db *pgxpool.Pool
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{db: db}
}

func scanCoupon(row pgx.Row) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID, &c.PairKey, &c.FromUserID, &c.FromUserName, &c.ToUserID, &c.Title,
		&c.Description, &c.Emoji, &c.Status, &c.RedeemedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create stores a coupon
func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	query := `INSERT INTO coupons (` + couponColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.PairKey, c.FromUserID, c.FromUserName, c.ToUserID, c.Title,
		c.Description, c.Emoji, c.Status, c.RedeemedAt, c.CreatedAt,
	)
	if err != nil {
		return insertErr("coupon", err)
	}
	return nil
}

// GetByID retrieves a coupon by ID
func (r *CouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if err != nil {
		return nil, getErr("coupon", err)
	}
	return c, nil
}

func (r *CouponRepository) list(ctx context.Context, column, userID string, limit int) ([]*models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}
	return collect(rows, "coupons", scanCoupon)
}

// ListReceived returns the newest coupons given to a user
func (r *CouponRepository) ListReceived(ctx context.Context, userID string, limit int) ([]*models.Coupon, error) {
	return r.list(ctx, "to_user_id", userID, limit)
}

// ListSent returns the newest coupons a user gave
func (r *CouponRepository) ListSent(ctx context.Context, userID string, limit int) ([]*models.Coupon, error) {
	return r.list(ctx, "from_user_id", userID, limit)
}

// Redeem marks an active coupon as redeemed
func (r *CouponRepository) Redeem(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE coupons SET status = $1, redeemed_at = $2 WHERE id = $3 AND status = $4`
	tag, err := r.db.Exec(ctx, query, models.CouponRedeemed, at, id, models.CouponActive)
	return affected("coupon", tag, err)
}

const bucketColumns = `id, pair_key, title, category, created_by, created_by_name, is_completed, completed_by, completed_at, created_at`

// BucketRepository handles database operations for bucket-list items
type BucketRepository struct {
	db *pgxpool.Pool
}

// NewBucketRepository creates a new bucket-list repository
func NewBucketRepository(db *pgxpool.Pool) *BucketRepository {
	return &BucketRepository{db: db}
}

func scanBucketItem(row pgx.Row) (*models.BucketItem, error) {
	var b models.BucketItem
	err := row.Scan(
		&b.ID, &b.PairKey, &b.Title, &b.Category, &b.CreatedBy, &b.CreatedByName,
		&b.IsCompleted, &b.CompletedBy, &b.CompletedAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create stores a bucket-list item
func (r *BucketRepository) Create(ctx context.Context, b *models.BucketItem) error {
	query := `INSERT INTO bucket_items (` + bucketColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.PairKey, b.Title, b.Category, b.CreatedBy, b.CreatedByName,
		b.IsCompleted, b.CompletedBy, b.CompletedAt, b.CreatedAt,
	)
	if err != nil {
		return insertErr("bucket item", err)
	}
	return nil
}

// GetByID retrieves a bucket-list item by ID
func (r *BucketRepository) GetByID(ctx context.Context, id string) (*models.BucketItem, error) {
	b, err := scanBucketItem(r.db.QueryRow(ctx, `SELECT `+bucketColumns+` FROM bucket_items WHERE id = $1`, id))
	if err != nil {
		return nil, getErr("bucket item", err)
	}
	return b, nil
}

// ListByPair returns open items first, then the rest, newest first within each group
func (r *BucketRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.BucketItem, error) {
	query := `
		SELECT ` + bucketColumns + `
		FROM bucket_items
		WHERE pair_key = $1
		ORDER BY is_completed ASC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket items: %w", err)
	}
	return collect(rows, "bucket items", scanBucketItem)
}

// SetCompleted updates the completion state of an item
func (r *BucketRepository) SetCompleted(ctx context.Context, id string, completed bool, by *string, at *time.Time) error {
	query := `UPDATE bucket_items SET is_completed = $1, completed_by = $2, completed_at = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, completed, by, at, id)
	return affected("bucket item", tag, err)
}

// Delete removes a bucket-list item
func (r *BucketRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bucket_items WHERE id = $1`, id)
	return affected("bucket item", tag, err)
}
