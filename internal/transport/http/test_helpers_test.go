package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/config"
	"github.com/samy-vision/samy-bridge/internal/core"
	"github.com/samy-vision/samy-bridge/internal/proto"
)

// startTestServer runs a hub with compressed auto-idle timing behind
// an httptest server.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	disabledLogger := zerolog.New(nil)

	hub := core.NewHub(core.Config{
		SpeakRate: time.Millisecond,
		IdleFloor: 20 * time.Millisecond,
	}, nil, &disabledLogger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
	}, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialViewer(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "done")
	})
	return conn
}

// readEvent reads messages until one of the wanted type arrives.
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string) *proto.Message {
	t.Helper()

	for {
		var msg proto.Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read waiting for %q: %v", typ, err)
		}
		if msg.Type == typ {
			return &msg
		}
	}
}
