package models

import "time"

// LoveNote is a short message from one partner to the other
type LoveNote struct {
	ID           string    `json:"id" bson:"_id"`
	FromUserID   string    `json:"from_user_id" bson:"from_user_id"`
	FromUserName string    `json:"from_user_name" bson:"from_user_name"`
	ToUserID     string    `json:"-" bson:"to_user_id"`
	Message      string    `json:"message" bson:"message"`
	Emoji        *string   `json:"emoji" bson:"emoji"`
	IsRead       bool      `json:"is_read" bson:"is_read"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// DateIdea is a generated date suggestion saved for a couple
type DateIdea struct {
	ID           string    `json:"id" bson:"_id"`
	PairKey      string    `json:"-" bson:"pair_key"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Budget       string    `json:"budget" bson:"budget"`
	Mood         string    `json:"mood" bson:"mood"`
	LocationType string    `json:"location_type" bson:"location_type"`
	Tips         []string  `json:"tips" bson:"tips"`
	IsFavorite   bool      `json:"is_favorite" bson:"is_favorite"`
	IsCompleted  bool      `json:"is_completed" bson:"is_completed"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Memory is an entry on a couple's timeline
type Memory struct {
	ID            string    `json:"id" bson:"_id"`
	PairKey       string    `json:"-" bson:"pair_key"`
	Title         string    `json:"title" bson:"title"`
	Description   *string   `json:"description" bson:"description"`
	Date          string    `json:"date" bson:"date"`
	PhotoURL      *string   `json:"photo_url" bson:"photo_url"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	CreatedByName string    `json:"created_by_name" bson:"created_by_name"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// MoodCheckin is a user's mood for one day
type MoodCheckin struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Mood      string    `json:"mood" bson:"mood"`
	Note      *string   `json:"note" bson:"note"`
	Date      string    `json:"date" bson:"date"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Coupon statuses
const (
	CouponActive   = "active"
	CouponRedeemed = "redeemed"
)

// Coupon is a redeemable favour one partner gives the other
type Coupon struct {
	ID           string     `json:"id" bson:"_id"`
	PairKey      string     `json:"-" bson:"pair_key"`
	FromUserID   string     `json:"from_user_id" bson:"from_user_id"`
	FromUserName string     `json:"from_user_name" bson:"from_user_name"`
	ToUserID     string     `json:"to_user_id" bson:"to_user_id"`
	Title        string     `json:"title" bson:"title"`
	Description  *string    `json:"description" bson:"description"`
	Emoji        *string    `json:"emoji" bson:"emoji"`
	Status       string     `json:"status" bson:"status"`
	RedeemedAt   *time.Time `json:"redeemed_at" bson:"redeemed_at"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}

// BucketItem is a shared bucket-list goal
type BucketItem struct {
	ID            string     `json:"id" bson:"_id"`
	PairKey       string     `json:"-" bson:"pair_key"`
	Title         string     `json:"title" bson:"title"`
	Category      string     `json:"category" bson:"category"`
	CreatedBy     string     `json:"created_by" bson:"created_by"`
	CreatedByName string     `json:"created_by_name" bson:"created_by_name"`
	IsCompleted   bool       `json:"is_completed" bson:"is_completed"`
	CompletedBy   *string    `json:"completed_by" bson:"completed_by"`
	CompletedAt   *time.Time `json:"completed_at" bson:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}
