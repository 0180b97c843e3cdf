package notify

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"candle-backend/internal/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscription(t *testing.T, endpoint string) *models.WebPushSubscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return &models.WebPushSubscription{
		Endpoint: endpoint,
		P256dh:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func newWebPush(t *testing.T) *WebPush {
	t.Helper()
	private, public, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return NewWebPush(WebPushConfig{PublicKey: public, PrivateKey: private, Subscriber: "ops@candle.test"})
}

func TestWebPushSend(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
		fails   bool
	}{
		{name: "created", status: http.StatusCreated},
		{name: "gone", status: http.StatusGone, wantErr: ErrSubscriptionGone, fails: true},
		{name: "server error", status: http.StatusInternalServerError, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newWebPush(t).Send(context.Background(), newSubscription(t, srv.URL), Message{Title: "Candle", Body: "hi"})
			assert.Contains(t, gotAuth, "vapid")
			if !tt.fails {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuildPayload(t *testing.T) {
	raw, err := json.Marshal(buildPayload(Message{Title: "New love note", Body: "Sam sent you a note", Kind: "love_note"}))
	require.NoError(t, err)

	var decoded struct {
		APS struct {
			Alert struct {
				Title string `json:"title"`
				Body  string `json:"body"`
			} `json:"alert"`
			Sound string `json:"sound"`
		} `json:"aps"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "New love note", decoded.APS.Alert.Title)
	assert.Equal(t, "Sam sent you a note", decoded.APS.Alert.Body)
	assert.Equal(t, "default", decoded.APS.Sound)
	assert.Equal(t, "love_note", decoded.Type)
}

func TestDispatcherWithoutChannels(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	assert.False(t, d.Enabled())
	token := "abc"
	d.Notify(context.Background(), &models.User{ID: "u1", PushToken: &token}, Message{Title: "x"})
	d.Notify(context.Background(), nil, Message{Title: "x"})
}
