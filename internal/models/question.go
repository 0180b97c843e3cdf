package models

import "time"

// Answer is one partner's reply to a daily question
type Answer struct {
	Text       string    `json:"text" bson:"text"`
	AnsweredAt time.Time `json:"answered_at" bson:"answered_at"`
}

// Question is the daily question shared by a couple
type Question struct {
	ID        string            `json:"id" bson:"_id"`
	PairKey   string            `json:"pair_key" bson:"pair_key"`
	Text      string            `json:"text" bson:"text"`
	Category  string            `json:"category" bson:"category"`
	Date      string            `json:"date" bson:"date"`
	Answers   map[string]Answer `json:"answers" bson:"answers"`
	Reactions map[string]string `json:"reactions" bson:"reactions"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// Streak tracks consecutive days on which a user's couple answered together
type Streak struct {
	UserID            string  `json:"user_id" bson:"user_id"`
	CurrentStreak     int     `json:"current_streak" bson:"current_streak"`
	LongestStreak     int     `json:"longest_streak" bson:"longest_streak"`
	LastAnsweredDate  *string `json:"last_answered_date" bson:"last_answered_date"`
	MilestonesReached []int   `json:"milestones_reached" bson:"milestones_reached"`
}
