// Package postgres implements the repository stores on PostgreSQL using pgx.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"candle-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Connect opens a pool and verifies the connection
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open connects, migrates and returns every store backed by the pool
func Open(ctx context.Context, dsn string) (*repository.Repositories, error) {
	pool, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("Database connection established")

	repos := New(pool)
	repos.OnClose(func(context.Context) error {
		pool.Close()
		return nil
	})
	return repos, nil
}

// New builds the stores on an existing pool
func New(db *pgxpool.Pool) *repository.Repositories {
	return &repository.Repositories{
		Users:        NewUserRepository(db),
		PairingCodes: NewPairingCodeRepository(db),
		Streaks:      NewStreakRepository(db),
		Questions:    NewQuestionRepository(db),
		Trivia:       NewTriviaRepository(db),
		TriviaScores: NewTriviaScoreRepository(db),
		Notes:        NewNoteRepository(db),
		DateIdeas:    NewDateIdeaRepository(db),
		Memories:     NewMemoryRepository(db),
		Moods:        NewMoodRepository(db),
		Coupons:      NewCouponRepository(db),
		Bucket:       NewBucketRepository(db),
		ThumbTouches: NewThumbTouchRepository(db),
		Dice:         NewDiceRepository(db),
		Drawings:     NewDrawingRepository(db),
		Fantasy:      NewFantasyRepository(db),
	}
}

// getErr maps a single-row lookup failure onto the repository sentinels
func getErr(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// insertErr maps unique violations onto repository.ErrDuplicate
func insertErr(what string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

// affected turns an update that touched no rows into repository.ErrNotFound
func affected(what string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return nil
}

// collect scans every row with scan
func collect[T any](rows pgx.Rows, what string, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", what, err)
	}
	return items, nil
}
