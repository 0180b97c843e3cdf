package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"candle-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub   *services.WSHub
	users *services.UserService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, users *services.UserService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, users: users}
}

// HandleWebSocket handles GET /ws?token=<jwt>
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Authenticate(r.Context(), token)
	if err != nil {
		handleError(w, r, err, "Failed to authenticate WebSocket connection")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	// the request context ends with the handler, not the connection
	ctx := context.WithoutCancel(r.Context())
	userID := user.ID
	h.hub.Register(userID, conn)
	defer h.disconnect(ctx, userID, conn)

	partnerID := user.PartnerIDValue()
	h.hub.Notify(userID, services.EventPairStatus, map[string]any{
		"has_partner": user.HasPartner(),
		"partner_id":  user.PartnerID,
	})
	h.hub.NotifyPartnerStatus(partnerID, true)

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	conn.SetReadLimit(maxMessageSize)

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", userID).Msg("WebSocket closed unexpectedly")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendError(userID, "Invalid message format")
			continue
		}
		h.handleMessage(userID, msg)
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(userID string, msg services.WSMessage) {
	switch msg.Type {
	case "ping":
		if err := h.hub.SendToUser(userID, services.WSMessage{Type: services.EventPong}); err != nil {
			log.Debug().Err(err).Str("user_id", userID).Msg("Failed to send pong")
		}
	default:
		h.sendError(userID, "Unknown message type")
	}
}

// disconnect unregisters the connection and tells the current partner. A
// connection replaced by a newer one leaves the user online.
func (h *WebSocketHandler) disconnect(ctx context.Context, userID string, conn *websocket.Conn) {
	if !h.hub.Unregister(userID, conn) {
		return
	}
	log.Info().Str("user_id", userID).Msg("WebSocket connection closed")

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to load user after disconnect")
		return
	}
	h.hub.NotifyPartnerStatus(user.PartnerIDValue(), false)
}

// sendError sends an error message to a user
func (h *WebSocketHandler) sendError(userID, message string) {
	if err := h.hub.SendToUser(userID, services.WSMessage{Type: services.EventError, Message: message}); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Failed to send error message")
	}
}
