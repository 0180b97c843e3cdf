package mongodb

import (
	"context"
	"fmt"
	"time"

	"candle-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// UserRepository stores users
type UserRepository struct {
	col *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return insertErr("user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, "user", bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, "user", bson.M{"email": email})
}

func (r *UserRepository) set(ctx context.Context, id string, fields bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return matched("user", res, err)
}

func (r *UserRepository) SetPartner(ctx context.Context, userID string, partnerID, partnerName *string) error {
	return r.set(ctx, userID, bson.M{"partner_id": partnerID, "partner_name": partnerName})
}

func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	return r.set(ctx, userID, bson.M{"push_token": pushToken})
}

func (r *UserRepository) UpdateWebPush(ctx context.Context, userID string, sub *models.WebPushSubscription) error {
	return r.set(ctx, userID, bson.M{"web_push": sub})
}

// PairingCodeRepository stores pairing codes keyed by code
type PairingCodeRepository struct {
	col *mongo.Collection
}

func (r *PairingCodeRepository) Create(ctx context.Context, code *models.PairingCode) error {
	if _, err := r.col.InsertOne(ctx, code); err != nil {
		return insertErr("pairing code", err)
	}
	return nil
}

func (r *PairingCodeRepository) GetByCode(ctx context.Context, code string) (*models.PairingCode, error) {
	return findOne[models.PairingCode](ctx, r.col, "pairing code", bson.M{"_id": code})
}

func (r *PairingCodeRepository) Delete(ctx context.Context, code string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": code}); err != nil {
		return fmt.Errorf("failed to delete pairing code: %w", err)
	}
	return nil
}

func (r *PairingCodeRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete pairing codes: %w", err)
	}
	return nil
}

// StreakRepository stores one streak document per user
type StreakRepository struct {
	col *mongo.Collection
}

func (r *StreakRepository) Get(ctx context.Context, userID string) (*models.Streak, error) {
	return findOne[models.Streak](ctx, r.col, "streak", bson.M{"user_id": userID})
}

func (r *StreakRepository) Upsert(ctx context.Context, s *models.Streak) error {
	doc := *s
	if doc.MilestonesReached == nil {
		doc.MilestonesReached = []int{}
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"user_id": s.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// QuestionRepository stores daily questions
type QuestionRepository struct {
	col *mongo.Collection
}

func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	doc := *q
	if doc.Answers == nil {
		doc.Answers = map[string]models.Answer{}
	}
	if doc.Reactions == nil {
		doc.Reactions = map[string]string{}
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return insertErr("question", err)
	}
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	return findOne[models.Question](ctx, r.col, "question", bson.M{"_id": id})
}

func (r *QuestionRepository) GetByPairAndDate(ctx context.Context, pairKey, date string) (*models.Question, error) {
	return findOne[models.Question](ctx, r.col, "question", bson.M{"pair_key": pairKey, "date": date})
}

func (r *QuestionRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Question, error) {
	return findAll[models.Question](ctx, r.col, "questions", bson.M{"pair_key": pairKey}, bson.D{{Key: "date", Value: -1}}, limit)
}

func (r *QuestionRepository) SetAnswer(ctx context.Context, id, userID string, answer models.Answer) error {
	return setIfAbsent(ctx, r.col, "question", id, "answers", userID, answer)
}

func (r *QuestionRepository) SetReaction(ctx context.Context, id, userID, reaction string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reactions." + userID: reaction}})
	return matched("question", res, err)
}

// TriviaRepository stores trivia rounds
type TriviaRepository struct {
	col *mongo.Collection
}

func (r *TriviaRepository) Create(ctx context.Context, t *models.Trivia) error {
	doc := *t
	if doc.Guesses == nil {
		doc.Guesses = map[string]models.Guess{}
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return insertErr("trivia", err)
	}
	return nil
}

func (r *TriviaRepository) GetByID(ctx context.Context, id string) (*models.Trivia, error) {
	return findOne[models.Trivia](ctx, r.col, "trivia", bson.M{"_id": id})
}

func (r *TriviaRepository) SetCorrectAnswer(ctx context.Context, id, answer string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"correct_answer": answer}})
	return matched("trivia", res, err)
}

func (r *TriviaRepository) SetGuess(ctx context.Context, id, userID string, guess models.Guess) error {
	return setIfAbsent(ctx, r.col, "trivia", id, "guesses", userID, guess)
}

func (r *TriviaRepository) ListPendingAbout(ctx context.Context, pairKey, userID string, limit int) ([]*models.Trivia, error) {
	filter := bson.M{"pair_key": pairKey, "about_user_id": userID, "correct_answer": nil}
	return findAll[models.Trivia](ctx, r.col, "trivia", filter, newestFirst, limit)
}

// TriviaScoreRepository stores per-couple scores
type TriviaScoreRepository struct {
	col *mongo.Collection
}

func (r *TriviaScoreRepository) Get(ctx context.Context, userID, pairKey string) (*models.TriviaScore, error) {
	return findOne[models.TriviaScore](ctx, r.col, "trivia score", bson.M{"user_id": userID, "pair_key": pairKey})
}

func (r *TriviaScoreRepository) Increment(ctx context.Context, userID, pairKey string, points, correct int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "pair_key": pairKey},
		bson.M{"$inc": bson.M{"score": points, "total_questions": 1, "correct": correct}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update trivia score: %w", err)
	}
	return nil
}

// NoteRepository stores love notes
type NoteRepository struct {
	col *mongo.Collection
}

func (r *NoteRepository) Create(ctx context.Context, n *models.LoveNote) error {
	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return insertErr("love note", err)
	}
	return nil
}

func (r *NoteRepository) ListReceived(ctx context.Context, userID string, limit int) ([]*models.LoveNote, error) {
	return findAll[models.LoveNote](ctx, r.col, "love notes", bson.M{"to_user_id": userID}, newestFirst, limit)
}

func (r *NoteRepository) ListSent(ctx context.Context, userID string, limit int) ([]*models.LoveNote, error) {
	return findAll[models.LoveNote](ctx, r.col, "love notes", bson.M{"from_user_id": userID}, newestFirst, limit)
}

func (r *NoteRepository) MarkRead(ctx context.Context, id, toUserID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "to_user_id": toUserID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return matched("love note", res, err)
}

func (r *NoteRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"to_user_id": userID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count love notes: %w", err)
	}
	return int(n), nil
}

// DateIdeaRepository stores date ideas
type DateIdeaRepository struct {
	col *mongo.Collection
}

func (r *DateIdeaRepository) Create(ctx context.Context, d *models.DateIdea) error {
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return insertErr("date idea", err)
	}
	return nil
}

func (r *DateIdeaRepository) GetByID(ctx context.Context, id string) (*models.DateIdea, error) {
	return findOne[models.DateIdea](ctx, r.col, "date idea", bson.M{"_id": id})
}

func (r *DateIdeaRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.DateIdea, error) {
	return findAll[models.DateIdea](ctx, r.col, "date ideas", bson.M{"pair_key": pairKey}, newestFirst, limit)
}

func (r *DateIdeaRepository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_favorite": favorite}})
	return matched("date idea", res, err)
}

func (r *DateIdeaRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_completed": completed}})
	return matched("date idea", res, err)
}

// MemoryRepository stores timeline memories
type MemoryRepository struct {
	col *mongo.Collection
}

func (r *MemoryRepository) Create(ctx context.Context, m *models.Memory) error {
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return insertErr("memory", err)
	}
	return nil
}

func (r *MemoryRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Memory, error) {
	sort := bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}
	return findAll[models.Memory](ctx, r.col, "memories", bson.M{"pair_key": pairKey}, sort, limit)
}

func (r *MemoryRepository) Delete(ctx context.Context, id, createdBy string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "created_by": createdBy})
	return deleted("memory", res, err)
}

// MoodRepository stores one check-in per user and day
type MoodRepository struct {
	col *mongo.Collection
}

func (r *MoodRepository) Upsert(ctx context.Context, m *models.MoodCheckin) error {
	var saved models.MoodCheckin
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": m.UserID, "date": m.Date},
		bson.M{
			"$set": bson.M{
				"user_name":  m.UserName,
				"mood":       m.Mood,
				"note":       m.Note,
				"created_at": m.CreatedAt,
			},
			"$setOnInsert": bson.M{"_id": m.ID},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return fmt.Errorf("failed to save mood: %w", err)
	}
	m.ID = saved.ID
	return nil
}

func (r *MoodRepository) GetByUserAndDate(ctx context.Context, userID, date string) (*models.MoodCheckin, error) {
	return findOne[models.MoodCheckin](ctx, r.col, "mood", bson.M{"user_id": userID, "date": date})
}

func (r *MoodRepository) ListByUsers(ctx context.Context, userIDs []string, limit int) ([]*models.MoodCheckin, error) {
	sort := bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}
	return findAll[models.MoodCheckin](ctx, r.col, "moods", bson.M{"user_id": bson.M{"$in": userIDs}}, sort, limit)
}

// CouponRepository stores love coupons
type CouponRepository struct {
	col *mongo.Collection
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return insertErr("coupon", err)
	}
	return nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	return findOne[models.Coupon](ctx, r.col, "coupon", bson.M{"_id": id})
}

func (r *CouponRepository) ListReceived(ctx context.Context, userID string, limit int) ([]*models.Coupon, error) {
	return findAll[models.Coupon](ctx, r.col, "coupons", bson.M{"to_user_id": userID}, newestFirst, limit)
}

func (r *CouponRepository) ListSent(ctx context.Context, userID string, limit int) ([]*models.Coupon, error) {
	return findAll[models.Coupon](ctx, r.col, "coupons", bson.M{"from_user_id": userID}, newestFirst, limit)
}

func (r *CouponRepository) Redeem(ctx context.Context, id string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.CouponActive},
		bson.M{"$set": bson.M{"status": models.CouponRedeemed, "redeemed_at": at}},
	)
	return matched("coupon", res, err)
}

// BucketRepository stores bucket-list items
type BucketRepository struct {
	col *mongo.Collection
}

func (r *BucketRepository) Create(ctx context.Context, b *models.BucketItem) error {
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return insertErr("bucket item", err)
	}
	return nil
}

func (r *BucketRepository) GetByID(ctx context.Context, id string) (*models.BucketItem, error) {
	return findOne[models.BucketItem](ctx, r.col, "bucket item", bson.M{"_id": id})
}

func (r *BucketRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.BucketItem, error) {
	sort := bson.D{{Key: "is_completed", Value: 1}, {Key: "created_at", Value: -1}}
	return findAll[models.BucketItem](ctx, r.col, "bucket items", bson.M{"pair_key": pairKey}, sort, limit)
}

func (r *BucketRepository) SetCompleted(ctx context.Context, id string, completed bool, by *string, at *time.Time) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_completed": completed,
		"completed_by": by,
		"completed_at": at,
	}})
	return matched("bucket item", res, err)
}

func (r *BucketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return deleted("bucket item", res, err)
}

// ThumbTouchRepository stores the latest touch of each user
type ThumbTouchRepository struct {
	col *mongo.Collection
}

func (r *ThumbTouchRepository) Upsert(ctx context.Context, t *models.ThumbTouch) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.UserID}, t, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save thumb touch: %w", err)
	}
	return nil
}

func (r *ThumbTouchRepository) Get(ctx context.Context, userID string) (*models.ThumbTouch, error) {
	return findOne[models.ThumbTouch](ctx, r.col, "thumb touch", bson.M{"_id": userID})
}

// DiceRepository stores dice rolls
type DiceRepository struct {
	col *mongo.Collection
}

func (r *DiceRepository) Create(ctx context.Context, d *models.DiceRoll) error {
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return insertErr("dice roll", err)
	}
	return nil
}

func (r *DiceRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.DiceRoll, error) {
	return findAll[models.DiceRoll](ctx, r.col, "dice rolls", bson.M{"pair_key": pairKey}, newestFirst, limit)
}

// DrawingRepository stores canvas drawings
type DrawingRepository struct {
	col *mongo.Collection
}

func (r *DrawingRepository) Create(ctx context.Context, d *models.Drawing) error {
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return insertErr("drawing", err)
	}
	return nil
}

func (r *DrawingRepository) ListByPair(ctx context.Context, pairKey string, limit int) ([]*models.Drawing, error) {
	return findAll[models.Drawing](ctx, r.col, "drawings", bson.M{"pair_key": pairKey}, newestFirst, limit)
}

func (r *DrawingRepository) Delete(ctx context.Context, id, createdBy string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "created_by": createdBy})
	return deleted("drawing", res, err)
}

// FantasyRepository stores fantasy profiles
type FantasyRepository struct {
	col *mongo.Collection
}

func (r *FantasyRepository) Get(ctx context.Context, userID string) (*models.FantasyProfile, error) {
	p, err := findOne[models.FantasyProfile](ctx, r.col, "fantasy profile", bson.M{"_id": userID})
	if err != nil {
		return nil, err
	}
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	return p, nil
}

func (r *FantasyRepository) Upsert(ctx context.Context, p *models.FantasyProfile) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.UserID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save fantasy profile: %w", err)
	}
	return nil
}
