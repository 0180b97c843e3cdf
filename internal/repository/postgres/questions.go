package postgres

import (
	"context"
	"fmt"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionColumns = `id, pair_key, text, category, date, answers, reactions, created_at`

// QuestionRepository handles database operations for daily questions
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.PairKey, &q.Text, &q.Category, &q.Date, &q.Answers, &q.Reactions, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if q.Answers == nil {
		q.Answers = map[string]models.Answer{}
	}
	if q.Reactions == nil {
		q.Reactions = map[string]string{}
	}
	return &q, nil
}

// Create stores a new question
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO questions (` + questionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	answers := q.Answers
	if answers == nil {
		answers = map[string]models.Answer{}
	}
	reactions := q.Reactions
	if reactions == nil {
		reactions = map[string]string{}
	}
	_, err := r.db.Exec(ctx, query, q.ID, q.PairKey, q.Text, q.Category, q.Date, answers, reactions, q.CreatedAt)
	if err != nil {
		return insertErr("question", err)
	}
	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q, err := scanQuestion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, getErr("question", err)
	}
	return q, nil
}

// GetByPairAndDate retrieves the question of a couple for one day
func (r *QuestionRepository) GetByPairAndDate(ctx context.Context, pairKey, date string) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE pair_key = $1 AND date = $2`
	q, err := scanQuestion(r.db.QueryRow(ctx, query, pairKey, date))
	if err != nil {
		return nil, getErr("question", err)
	}
	return q, nil
}

// ListByPair returns the newest questions of a couple
func (r *QuestionRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE pair_key = $1
		ORDER BY date DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return collect(rows, "questions", scanQuestion)
}

// SetAnswer records the answer of a user unless one is already present
func (r *QuestionRepository) SetAnswer(ctx context.Context, id, userID string, answer models.Answer) error {
	query := `
		UPDATE questions
		SET answers = answers || jsonb_build_object($2::text, $3::jsonb)
		WHERE id = $1 AND NOT (answers ? $2)
	`
	tag, err := r.db.Exec(ctx, query, id, userID, answer)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("answer: %w", repository.ErrDuplicate)
}

// SetReaction records the reaction of a user, replacing any previous one
func (r *QuestionRepository) SetReaction(ctx context.Context, id, userID, reaction string) error {
	query := `
		UPDATE questions
		SET reactions = reactions || jsonb_build_object($2::text, $3::text)
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, userID, reaction)
	return affected("question", tag, err)
}

// StreakRepository handles database operations for streaks
type StreakRepository struct {
	db *pgxpool.Pool
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *pgxpool.Pool) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get retrieves the streak of a user
func (r *StreakRepository) Get(ctx context.Context, userID string) (*models.Streak, error) {
	query := `
		SELECT user_id, current_streak, longest_streak, last_answered_date, milestones_reached
		FROM streaks
		WHERE user_id = $1
	`
	var s models.Streak
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.LastAnsweredDate, &s.MilestonesReached,
	)
	if err != nil {
		return nil, getErr("streak", err)
	}
	return &s, nil
}

// Upsert creates or replaces the streak of a user
func (r *StreakRepository) Upsert(ctx context.Context, s *models.Streak) error {
	query := `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_answered_date, milestones_reached)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_answered_date = EXCLUDED.last_answered_date,
			milestones_reached = EXCLUDED.milestones_reached
	`
	milestones := s.MilestonesReached
	if milestones == nil {
		milestones = []int{}
	}
	_, err := r.db.Exec(ctx, query, s.UserID, s.CurrentStreak, s.LongestStreak, s.LastAnsweredDate, milestones)
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}
