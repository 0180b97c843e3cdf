package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Realtime event types pushed to connected clients
const (
	EventPairStatus          = "pair_status"
	EventPartnerStatus       = "partner_status"
	EventPartnerConnected    = "partner_connected"
	EventPartnerDisconnected = "partner_disconnected"
	EventLoveNote            = "love_note"
	EventThumbTouch          = "thumb_touch"
	EventDiceRolled          = "dice_rolled"
	EventCanvasDrawing       = "canvas_drawing"
	EventCouponRedeemed      = "coupon_redeemed"
	EventPong                = "pong"
	EventError               = "error"
)

const writeTimeout = 10 * time.Second

// ErrOffline is returned when the user has no open connection
var ErrOffline = errors.New("user is not connected")

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Online    *bool  `json:"online,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages WebSocket connections, at most one per user
type WSHub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		clients: make(map[string]*wsClient),
	}
}

// Register registers a new WebSocket connection for a user, closing the
// previous one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[userID]; ok {
		existing.conn.Close()
	}
	h.clients[userID] = &wsClient{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes conn if it is still the user's current connection.
// It reports whether the connection was removed.
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[userID]
	if !ok || client.conn != conn {
		return false
	}
	client.conn.Close()
	delete(h.clients, userID)
	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	return true
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return ErrOffline
	}

	if message.Timestamp == 0 {
		message.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Notify sends an event to the user if connected. Offline users miss it.
func (h *WSHub) Notify(userID, eventType string, data any) {
	if userID == "" {
		return
	}
	err := h.SendToUser(userID, WSMessage{Type: eventType, Data: data})
	switch {
	case err == nil:
	case errors.Is(err, ErrOffline):
		log.Debug().Str("user_id", userID).Str("type", eventType).Msg("Skipping event for offline user")
	default:
		log.Error().Err(err).Str("user_id", userID).Str("type", eventType).Msg("Failed to send event")
	}
}

// NotifyPartnerStatus notifies partner about online/offline status
func (h *WSHub) NotifyPartnerStatus(partnerID string, online bool) {
	if partnerID == "" {
		return
	}
	if err := h.SendToUser(partnerID, WSMessage{Type: EventPartnerStatus, Online: &online}); err != nil && !errors.Is(err, ErrOffline) {
		log.Error().
			Err(err).
			Str("user_id", partnerID).
			Msg("Failed to notify partner status")
	}
}

// CloseAll closes every connection
func (h *WSHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, client := range h.clients {
		client.conn.Close()
		delete(h.clients, userID)
	}
}
