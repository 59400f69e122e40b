package status

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNilHub(t *testing.T) {
	var h *Hub
	h.Info("ignored %d", 1)
	task := h.Task("ignored", 3)
	task.Iterate()
	if h.Last() != nil || task.Done() != 1 {
		t.Error("nil hub kept state")
	}
}

func TestTaskProgress(t *testing.T) {
	h := NewHub()
	task := h.Task("Ingesting cells", 4)
	for i := 0; i < 4; i++ {
		task.Iterate()
	}

	var s status
	if err := json.Unmarshal(h.Last(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Type != PROGRESS || s.Progress != 1 || s.Message != "Ingesting cells 4/4" {
		t.Errorf("last status=%+v", s)
	}
}

func TestWebsocketFeed(t *testing.T) {
	h := NewHub()
	h.Info("hello %s", "world")

	server := httptest.NewServer(h)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var s status
	if err := conn.ReadJSON(&s); err != nil {
		t.Fatal(err)
	}
	if s.Type != INFO || s.Message != "hello world" {
		t.Errorf("first message=%+v", s)
	}
}
