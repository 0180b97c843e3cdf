package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"candle-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEvent struct {
	Type    string         `json:"type"`
	Online  *bool          `json:"online"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func dialWS(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev wsEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	api := newTestAPI(t)
	server := httptest.NewServer(api.handler)
	defer server.Close()

	for _, query := range []string{"", "?token=bogus"} {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestWebSocketSession(t *testing.T) {
	api := newTestAPI(t)
	alexToken, samToken := api.couple()
	server := httptest.NewServer(api.handler)
	defer server.Close()

	alex := dialWS(t, server, alexToken)
	ev := readEvent(t, alex)
	assert.Equal(t, services.EventPairStatus, ev.Type)
	assert.Equal(t, true, ev.Data["has_partner"])

	sam := dialWS(t, server, samToken)
	assert.Equal(t, services.EventPairStatus, readEvent(t, sam).Type)

	ev = readEvent(t, alex)
	assert.Equal(t, services.EventPartnerStatus, ev.Type)
	require.NotNil(t, ev.Online)
	assert.True(t, *ev.Online)

	require.NoError(t, alex.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, services.EventPong, readEvent(t, alex).Type)

	require.NoError(t, alex.WriteJSON(map[string]string{"type": "dance"}))
	ev = readEvent(t, alex)
	assert.Equal(t, services.EventError, ev.Type)
	assert.Equal(t, "Unknown message type", ev.Message)

	require.NoError(t, alex.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "Invalid message format", readEvent(t, alex).Message)

	rec := api.request(http.MethodPost, "/api/notes", samToken, map[string]string{"message": "Miss you"})
	require.Equal(t, http.StatusOK, rec.Code)
	ev = readEvent(t, alex)
	assert.Equal(t, services.EventLoveNote, ev.Type)

	sam.Close()
	ev = readEvent(t, alex)
	assert.Equal(t, services.EventPartnerStatus, ev.Type)
	require.NotNil(t, ev.Online)
	assert.False(t, *ev.Online)
}
