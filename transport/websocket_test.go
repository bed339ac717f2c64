package transport

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// pumpServer upgrades one connection and runs the client pumps with a short
// liveness window.
func pumpServer(t *testing.T, pongWait time.Duration) (*httptest.Server, <-chan struct{}) {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	readDone := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		c := &client{
			log:        slog.Default(),
			conn:       conn,
			sink:       newWSSink(1),
			done:       make(chan struct{}),
			pongWait:   pongWait,
			pingPeriod: pongWait / 3,
		}
		go c.writePump()
		c.readPump(r)
		close(readDone)
	}))
	return server, readDone
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestReadPump_DropsUnresponsivePeer(t *testing.T) {
	server, readDone := pumpServer(t, 200*time.Millisecond)
	defer server.Close()

	// Given a peer that connects and then never reads or writes again
	conn := dial(t, server)
	defer conn.Close()

	// Then the read deadline trips instead of blocking forever
	select {
	case <-readDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server kept a dead connection open")
	}
}

func TestReadPump_KeepsResponsivePeerAlive(t *testing.T) {
	server, readDone := pumpServer(t, 200*time.Millisecond)
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()

	// Given a peer whose read loop answers the server pings with pongs
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Then the connection outlives several liveness windows
	select {
	case <-readDone:
		t.Fatal("responsive peer was dropped")
	case <-time.After(time.Second):
	}
}
