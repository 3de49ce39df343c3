package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// startTestServer upgrades incoming connections and registers them for userID.
func startTestServer(t *testing.T, hub *Hub, userID int64) (*httptest.Server, func()) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&Client{UserID: userID, Conn: conn})
	}))

	return srv, srv.Close
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_IsOnline_NoConnections(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.IsOnline(123))
}

func TestHub_SendToUser_UserNotOnline(t *testing.T) {
	hub := NewHub()

	msg := &Message{
		Type: TypeNotification,
		Data: map[string]string{"key": "value"},
	}

	// Offline user is not an error
	err := hub.SendToUser(123, msg)
	assert.NoError(t, err)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	srv, cleanup := startTestServer(t, hub, 1)
	defer cleanup()

	conn := dial(t, srv)
	defer conn.Close()

	// Registration happens on the server side of the upgrade
	require.Eventually(t, func() bool {
		return hub.IsOnline(1)
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.mu.RLock()
	var client *Client
	for c := range hub.clients[1] {
		client = c
	}
	hub.mu.RUnlock()

	hub.Unregister(client)
	assert.False(t, hub.IsOnline(1))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_SendToUser_DeliversMessage(t *testing.T) {
	hub := NewHub()

	srv, cleanup := startTestServer(t, hub, 7)
	defer cleanup()

	conn := dial(t, srv)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.IsOnline(7)
	}, time.Second, 10*time.Millisecond)

	err := hub.SendToUser(7, &Message{Type: TypeChannelMessage, Data: "hello"})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), TypeChannelMessage)
	assert.Contains(t, string(data), "hello")
}

func TestHub_SendToUsers_SkipsOffline(t *testing.T) {
	hub := NewHub()

	srv, cleanup := startTestServer(t, hub, 7)
	defer cleanup()

	conn := dial(t, srv)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.IsOnline(7)
	}, time.Second, 10*time.Millisecond)

	// 99 is offline; fan-out should still reach 7
	hub.SendToUsers([]int64{99, 7}, &Message{Type: TypeChannelMessage, Data: "fanout"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "fanout")
}
