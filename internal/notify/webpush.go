package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"candle-backend/internal/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrSubscriptionGone is returned when the push service reports the
// subscription as expired
var ErrSubscriptionGone = errors.New("web push subscription expired")

const webPushTTL = 60

// WebPushConfig holds the VAPID key pair
type WebPushConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

// WebPush sends notifications to browser subscriptions
type WebPush struct {
	cfg WebPushConfig
}

// NewWebPush creates a Web Push sender
func NewWebPush(cfg WebPushConfig) *WebPush {
	return &WebPush{cfg: cfg}
}

type webPushBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Type  string `json:"type,omitempty"`
}

// Send delivers msg to one subscription
func (w *WebPush) Send(ctx context.Context, sub *models.WebPushSubscription, msg Message) error {
	body, err := json.Marshal(webPushBody{Title: msg.Title, Body: msg.Body, Type: msg.Kind})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      w.cfg.Subscriber,
		VAPIDPublicKey:  w.cfg.PublicKey,
		VAPIDPrivateKey: w.cfg.PrivateKey,
		TTL:             webPushTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to send web push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return ErrSubscriptionGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
