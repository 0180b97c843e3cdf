package models

import "time"

// ThumbTouch is the latest screen touch of a user, polled by the partner
type ThumbTouch struct {
	UserID    string    `json:"user_id" bson:"_id"`
	PairKey   string    `json:"pair_key" bson:"pair_key"`
	X         float64   `json:"x" bson:"x"`
	Y         float64   `json:"y" bson:"y"`
	TouchedAt time.Time `json:"touched_at" bson:"touched_at"`
}

// DiceRoll is one throw of the spicy dice
type DiceRoll struct {
	ID           string    `json:"id" bson:"_id"`
	PairKey      string    `json:"-" bson:"pair_key"`
	RolledBy     string    `json:"rolled_by" bson:"rolled_by"`
	RolledByName string    `json:"rolled_by_name" bson:"rolled_by_name"`
	Intensity    string    `json:"intensity" bson:"intensity"`
	Action       string    `json:"action" bson:"action"`
	Target       string    `json:"target" bson:"target"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Drawing is a canvas sketch uploaded to the media host
type Drawing struct {
	ID            string    `json:"id" bson:"_id"`
	PairKey       string    `json:"-" bson:"pair_key"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	CreatedByName string    `json:"created_by_name" bson:"created_by_name"`
	ImageURL      string    `json:"image_url" bson:"image_url"`
	Caption       *string   `json:"caption" bson:"caption"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// FantasyProfile holds a user's yes/maybe/no answers to the fantasy catalog
type FantasyProfile struct {
	UserID    string            `json:"user_id" bson:"_id"`
	Answers   map[string]string `json:"answers" bson:"answers"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}
