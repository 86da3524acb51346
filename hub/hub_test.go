package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaja/seating/notify"
	"github.com/mesaja/seating/utils"
)

func newTestServer(t *testing.T, h *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Register(conn, "staff")
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	require.Eventually(t, func() bool { return h.Count() == n }, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastsGroupEvents(t *testing.T) {
	utils.Silence()
	h := New()
	srv := newTestServer(t, h)
	first := dial(t, srv)
	second := dial(t, srv)
	waitForClients(t, h, 2)

	ev := notify.Event{ID: "1", Kind: notify.KindPartySeated, Text: "Party 'Ana' seated at table(s) 4.", At: time.Now()}
	require.NoError(t, h.Deliver(context.Background(), ev))

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Event string       `json:"event"`
			Data  notify.Event `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, notify.KindPartySeated, msg.Event)
		assert.Equal(t, ev.Text, msg.Data.Text)
	}
}

func TestHubSkipsDirectEvents(t *testing.T) {
	utils.Silence()
	h := New()
	srv := newTestServer(t, h)
	conn := dial(t, srv)
	waitForClients(t, h, 1)

	require.NoError(t, h.Deliver(context.Background(), notify.Event{Kind: notify.KindDirect, Text: "private", Recipient: "42"}))

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	utils.Silence()
	h := New()
	srv := newTestServer(t, h)
	conn := dial(t, srv)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}
