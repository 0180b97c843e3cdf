// Package mongodb implements the repository stores on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"candle-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	colUsers        = "users"
	colPairingCodes = "pairing_codes"
	colStreaks      = "streaks"
	colQuestions    = "questions"
	colTrivia       = "trivia"
	colTriviaScores = "trivia_scores"
	colLoveNotes    = "love_notes"
	colDateIdeas    = "date_ideas"
	colMemories     = "memories"
	colMoods        = "mood_checkins"
	colCoupons      = "coupons"
	colBucketItems  = "bucket_items"
	colThumbTouches = "thumb_touches"
	colDiceRolls    = "dice_rolls"
	colDrawings     = "drawings"
	colFantasy      = "fantasy_profiles"
)

const (
	connectTimeout    = 15 * time.Second
	disconnectTimeout = 10 * time.Second
)

// Open connects to MongoDB, ensures indexes and returns every store
func Open(ctx context.Context, uri, dbName string) (*repository.Repositories, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	repos := New(db)
	repos.OnClose(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, disconnectTimeout)
		defer cancel()
		return client.Disconnect(ctx)
	})
	return repos, nil
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	asc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return d
	}
	newest := func(key string) bson.D {
		return bson.D{{Key: key, Value: 1}, {Key: "created_at", Value: -1}}
	}
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		colUsers:        {{Keys: asc("email"), Options: unique}},
		colPairingCodes: {{Keys: asc("user_id")}},
		colStreaks:      {{Keys: asc("user_id"), Options: unique}},
		colQuestions:    {{Keys: asc("pair_key", "date"), Options: unique}},
		colTrivia: {{Keys: bson.D{
			{Key: "pair_key", Value: 1}, {Key: "about_user_id", Value: 1}, {Key: "created_at", Value: -1},
		}}},
		colTriviaScores: {{Keys: asc("user_id", "pair_key"), Options: unique}},
		colLoveNotes:    {{Keys: newest("to_user_id")}, {Keys: newest("from_user_id")}},
		colDateIdeas:    {{Keys: newest("pair_key")}},
		colMemories:     {{Keys: bson.D{{Key: "pair_key", Value: 1}, {Key: "date", Value: -1}}}},
		colMoods:        {{Keys: asc("user_id", "date"), Options: unique}},
		colCoupons:      {{Keys: newest("to_user_id")}, {Keys: newest("from_user_id")}},
		colBucketItems:  {{Keys: newest("pair_key")}},
		colDiceRolls:    {{Keys: newest("pair_key")}},
		colDrawings:     {{Keys: newest("pair_key")}},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// New builds the stores on a database handle
func New(db *mongo.Database) *repository.Repositories {
	return &repository.Repositories{
		Users:        &UserRepository{col: db.Collection(colUsers)},
		PairingCodes: &PairingCodeRepository{col: db.Collection(colPairingCodes)},
		Streaks:      &StreakRepository{col: db.Collection(colStreaks)},
		Questions:    &QuestionRepository{col: db.Collection(colQuestions)},
		Trivia:       &TriviaRepository{col: db.Collection(colTrivia)},
		TriviaScores: &TriviaScoreRepository{col: db.Collection(colTriviaScores)},
		Notes:        &NoteRepository{col: db.Collection(colLoveNotes)},
		DateIdeas:    &DateIdeaRepository{col: db.Collection(colDateIdeas)},
		Memories:     &MemoryRepository{col: db.Collection(colMemories)},
		Moods:        &MoodRepository{col: db.Collection(colMoods)},
		Coupons:      &CouponRepository{col: db.Collection(colCoupons)},
		Bucket:       &BucketRepository{col: db.Collection(colBucketItems)},
		ThumbTouches: &ThumbTouchRepository{col: db.Collection(colThumbTouches)},
		Dice:         &DiceRepository{col: db.Collection(colDiceRolls)},
		Drawings:     &DrawingRepository{col: db.Collection(colDrawings)},
		Fantasy:      &FantasyRepository{col: db.Collection(colFantasy)},
	}
}

func getErr(what string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func insertErr(what string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

func matched(what string, res *mongo.UpdateResult, err error) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return nil
}

func deleted(what string, res *mongo.DeleteResult, err error) error {
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", what, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, what string, filter bson.M) (*T, error) {
	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, getErr(what, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, what string, filter bson.M, sort bson.D, limit int) ([]*T, error) {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	items := []*T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return items, nil
}

// setIfAbsent writes field.key on the document unless it is already present.
// It returns ErrDuplicate when the key exists and ErrNotFound when the
// document does not.
func setIfAbsent(ctx context.Context, col *mongo.Collection, what, id, field, key string, value any) error {
	path := field + "." + key
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, path: bson.M{"$exists": false}},
		bson.M{"$set": bson.M{path: value}},
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
}
