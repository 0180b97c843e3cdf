// Package notify delivers push notifications to a user's devices
package notify

import (
	"context"
	"errors"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const sendTimeout = 10 * time.Second

// Message is the content of one push notification
type Message struct {
	Title string
	Body  string
	Kind  string
}

// Notifier pushes a message to every device registered by a user
type Notifier interface {
	Notify(ctx context.Context, user *models.User, msg Message)
}

// Nop discards notifications
type Nop struct{}

// Notify does nothing
func (Nop) Notify(context.Context, *models.User, Message) {}

// Dispatcher fans a message out to APNs and Web Push. Either sender may be nil.
// Delivery happens in the background and failures are only logged.
type Dispatcher struct {
	apns    *APNs
	webPush *WebPush
	users   repository.UserStore
}

// NewDispatcher creates a dispatcher. users is used to forget expired
// browser subscriptions.
func NewDispatcher(apns *APNs, webPush *WebPush, users repository.UserStore) *Dispatcher {
	return &Dispatcher{apns: apns, webPush: webPush, users: users}
}

// Enabled reports whether any push channel is configured
func (d *Dispatcher) Enabled() bool {
	return d.apns != nil || d.webPush != nil
}

// Notify sends msg to the user's APNs token and Web Push subscription
func (d *Dispatcher) Notify(ctx context.Context, user *models.User, msg Message) {
	if user == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	if d.apns != nil && user.PushToken != nil && *user.PushToken != "" {
		token := *user.PushToken
		go func() {
			ctx, cancel := context.WithTimeout(ctx, sendTimeout)
			defer cancel()
			if err := d.apns.Send(ctx, token, msg); err != nil {
				log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to send APNs notification")
			}
		}()
	}

	if d.webPush != nil && user.WebPush != nil {
		sub := *user.WebPush
		go func() {
			ctx, cancel := context.WithTimeout(ctx, sendTimeout)
			defer cancel()
			err := d.webPush.Send(ctx, &sub, msg)
			if err == nil {
				return
			}
			log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to send web push notification")
			if errors.Is(err, ErrSubscriptionGone) && d.users != nil {
				if err := d.users.UpdateWebPush(ctx, user.ID, nil); err != nil {
					log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to remove expired web push subscription")
				}
			}
		}()
	}
}
