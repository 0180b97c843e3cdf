package models

import (
	"sort"
	"strings"
	"time"
)

// User represents an account in the system
type User struct {
	ID           string               `json:"id" bson:"_id"`
	Email        string               `json:"email" bson:"email"`
	PasswordHash string               `json:"-" bson:"password_hash"`
	Name         string               `json:"name" bson:"name"`
	PartnerID    *string              `json:"partner_id" bson:"partner_id"`
	PartnerName  *string              `json:"partner_name" bson:"partner_name"`
	PushToken    *string              `json:"push_token,omitempty" bson:"push_token,omitempty"`
	WebPush      *WebPushSubscription `json:"-" bson:"web_push,omitempty"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
}

// HasPartner reports whether the user is paired
func (u *User) HasPartner() bool {
	return u.PartnerID != nil && *u.PartnerID != ""
}

// PartnerIDValue returns the partner id or an empty string
func (u *User) PartnerIDValue() string {
	if u.PartnerID == nil {
		return ""
	}
	return *u.PartnerID
}

// PartnerNameValue returns the partner name or an empty string
func (u *User) PartnerNameValue() string {
	if u.PartnerName == nil {
		return ""
	}
	return *u.PartnerName
}

// PairKey returns the couple key of the user, or "" when unpaired
func (u *User) PairKey() string {
	if !u.HasPartner() {
		return ""
	}
	return PairKey(u.ID, *u.PartnerID)
}

// WebPushSubscription is a browser push endpoint registered by a user
type WebPushSubscription struct {
	Endpoint string `json:"endpoint" bson:"endpoint"`
	P256dh   string `json:"p256dh" bson:"p256dh"`
	Auth     string `json:"auth" bson:"auth"`
}

// PairingCode is a short-lived code one user hands to the other to pair
type PairingCode struct {
	Code      string    `json:"code" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Expired reports whether the code is no longer usable at now
func (p *PairingCode) Expired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}

// PairKey builds the couple identifier from two user ids. The ids are sorted
// so both partners derive the same key.
func PairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// DateLayout is the layout of day-granular dates stored on documents
const DateLayout = "2006-01-02"

// Day formats t as a UTC calendar date
func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
