package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/radieske/bets-core/pkg/contracts/events"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// roundTrip envia ping e espera o pong: mensagens anteriores já foram processadas
func roundTrip(t *testing.T, c *websocket.Conn) {
	t.Helper()
	require.NoError(t, c.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, c.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func TestHub_BroadcastToSubscribers(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t), func(*http.Request) bool { return true })
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c := dial(t, srv)
	require.NoError(t, c.WriteJSON(ClientMsg{Type: "subscribe", UserID: "u1"}))
	roundTrip(t, c)
	assert.Equal(t, 1, hub.Subscribers("u1"))

	hub.Broadcast(events.DashboardUpdate{UserID: "u2", Payload: json.RawMessage(`{"x":0}`)})
	hub.Broadcast(events.DashboardUpdate{UserID: "u1", Payload: json.RawMessage(`{"x":1}`)})

	var got events.DashboardUpdate
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, c.ReadJSON(&got))
	assert.Equal(t, "u1", got.UserID)
	assert.JSONEq(t, `{"x":1}`, string(got.Payload))
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t), func(*http.Request) bool { return true })
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c := dial(t, srv)
	require.NoError(t, c.WriteJSON(ClientMsg{Type: "subscribe", UserID: "u1"}))
	require.NoError(t, c.WriteJSON(ClientMsg{Type: "unsubscribe", UserID: "u1"}))
	roundTrip(t, c)

	assert.Zero(t, hub.Subscribers("u1"))
}
