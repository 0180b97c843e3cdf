package postgres

import (
	"context"
	"fmt"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const triviaColumns = `id, pair_key, question, options, category, about_user_id, about_user_name, correct_answer, guesses, created_at`

// TriviaRepository handles database operations for trivia rounds
type TriviaRepository struct {
	db *pgxpool.Pool
}

// NewTriviaRepository creates a new trivia repository
func NewTriviaRepository(db *pgxpool.Pool) *TriviaRepository {
	return &TriviaRepository{db: db}
}

func scanTrivia(row pgx.Row) (*models.Trivia, error) {
	var t models.Trivia
	err := row.Scan(
		&t.ID, &t.PairKey, &t.Question, &t.Options, &t.Category, &t.AboutUserID,
		&t.AboutUserName, &t.CorrectAnswer, &t.Guesses, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.Guesses == nil {
		t.Guesses = map[string]models.Guess{}
	}
	return &t, nil
}

// Create stores a new trivia round
func (r *TriviaRepository) Create(ctx context.Context, t *models.Trivia) error {
	query := `
		INSERT INTO trivia (` + triviaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	guesses := t.Guesses
	if guesses == nil {
		guesses = map[string]models.Guess{}
	}
	_, err := r.db.Exec(ctx, query,
		t.ID, t.PairKey, t.Question, t.Options, t.Category, t.AboutUserID,
		t.AboutUserName, t.CorrectAnswer, guesses, t.CreatedAt,
	)
	if err != nil {
		return insertErr("trivia", err)
	}
	return nil
}

// GetByID retrieves a trivia round by ID
func (r *TriviaRepository) GetByID(ctx context.Context, id string) (*models.Trivia, error) {
	query := `SELECT ` + triviaColumns + ` FROM trivia WHERE id = $1`
	t, err := scanTrivia(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, getErr("trivia", err)
	}
	return t, nil
}

// SetCorrectAnswer stores the subject's answer
func (r *TriviaRepository) SetCorrectAnswer(ctx context.Context, id, answer string) error {
	tag, err := r.db.Exec(ctx, `UPDATE trivia SET correct_answer = $1 WHERE id = $2`, answer, id)
	return affected("trivia", tag, err)
}

// SetGuess records the guess of a user unless one is already present
func (r *TriviaRepository) SetGuess(ctx context.Context, id, userID string, guess models.Guess) error {
	query := `
		UPDATE trivia
		SET guesses = guesses || jsonb_build_object($2::text, $3::jsonb)
		WHERE id = $1 AND NOT (guesses ? $2)
	`
	tag, err := r.db.Exec(ctx, query, id, userID, guess)
	if err != nil {
		return fmt.Errorf("failed to save guess: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("guess: %w", repository.ErrDuplicate)
}

// ListPendingAbout returns rounds about userID still waiting for a correct answer
func (r *TriviaRepository) ListPendingAbout(ctx context.Context, pairKey, userID string, limit int) ([]*models.Trivia, error) {
	query := `
		SELECT ` + triviaColumns + `
		FROM trivia
		WHERE pair_key = $1 AND about_user_id = $2 AND correct_answer IS NULL
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, pairKey, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending trivia: %w", err)
	}
	return collect(rows, "trivia", scanTrivia)
}

// TriviaScoreRepository handles database operations for trivia scores
type TriviaScoreRepository struct {
	db *pgxpool.Pool
}

// NewTriviaScoreRepository creates a new trivia score repository
func NewTriviaScoreRepository(db *pgxpool.Pool) *TriviaScoreRepository {
	return &TriviaScoreRepository{db: db}
}

// Get retrieves the score of a user inside a couple
func (r *TriviaScoreRepository) Get(ctx context.Context, userID, pairKey string) (*models.TriviaScore, error) {
	query := `
		SELECT user_id, pair_key, score, total_questions, correct
		FROM trivia_scores
		WHERE user_id = $1 AND pair_key = $2
	`
	var s models.TriviaScore
	err := r.db.QueryRow(ctx, query, userID, pairKey).Scan(
		&s.UserID, &s.PairKey, &s.Score, &s.TotalQuestions, &s.Correct,
	)
	if err != nil {
		return nil, getErr("trivia score", err)
	}
	return &s, nil
}

// Increment adds one answered question to the score, creating it on first use
func (r *TriviaScoreRepository) Increment(ctx context.Context, userID, pairKey string, points, correct int) error {
	query := `
		INSERT INTO trivia_scores (user_id, pair_key, score, total_questions, correct)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (user_id, pair_key) DO UPDATE SET
			score = trivia_scores.score + EXCLUDED.score,
			total_questions = trivia_scores.total_questions + 1,
			correct = trivia_scores.correct + EXCLUDED.correct
	`
	if _, err := r.db.Exec(ctx, query, userID, pairKey, points, correct); err != nil {
		return fmt.Errorf("failed to update trivia score: %w", err)
	}
	return nil
}
