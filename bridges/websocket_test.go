package bridges_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"streamkit/bridges"
	"streamkit/internal/websockettest"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func TestWebSocketSourceStreamsInboundFrames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("server upgrade: %v", err)
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("hello"))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("world"))
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websockettest.DialIgnoringPongs(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	src := bridges.WebSocketSource(conn)
	r, err := src.GetReader()
	if err != nil {
		t.Fatalf("GetReader: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	v1, done, rerr := r.Read(ctx)
	if rerr != nil || done {
		t.Fatalf("expected first frame, got done=%v err=%v", done, rerr)
	}
	if string(v1) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", v1)
	}

	v2, done, rerr := r.Read(ctx)
	if rerr != nil || done {
		t.Fatalf("expected second frame, got done=%v err=%v", done, rerr)
	}
	if string(v2) != "world" {
		t.Fatalf("expected %q, got %q", "world", v2)
	}
}

func TestWebSocketSinkWritesOutboundFrames(t *testing.T) {
	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("server upgrade: %v", err)
			return
		}
		defer conn.Close()
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("server read: %v", err)
			return
		}
		received <- string(frame)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websockettest.DialIgnoringPongs(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sink := bridges.WebSocketSink(conn)
	if err := sink.Write([]byte("ping")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case got := <-received:
		if got != "ping" {
			t.Fatalf("expected %q, got %q", "ping", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for server to receive frame")
	}
}
