package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"online-judge/internal/logging"
)

func TestWebSocketSubmitFlow(t *testing.T) {
	service := newTestService(t)
	server := httptest.NewServer(NewRouter(service, NewWSHandler(service, logging.Discard())))
	defer server.Close()

	user := service.Login(context.Background(), "alice")

	u := "ws" + server.URL[len("http"):] + "/ws?userId=" + user.ID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial leaderboard snapshot.
	if typ, _ := readNext(conn, t, "leaderboard"); typ != "leaderboard" {
		t.Fatalf("expected leaderboard, got %s", typ)
	}

	submit := map[string]any{
		"type":    "submit",
		"payload": map[string]any{"problem": 1, "answer": 4},
	}
	if err := conn.WriteJSON(submit); err != nil {
		t.Fatalf("write submit: %v", err)
	}

	resultSeen := false
	leaderboardSeen := false
	for i := 0; i < 3 && !(resultSeen && leaderboardSeen); i++ {
		typ, payload := readNext(conn, t, "")
		switch typ {
		case "result":
			resultSeen = true
			if payload["score"] != float64(10) {
				t.Fatalf("expected score 10, got %+v", payload)
			}
		case "leaderboard":
			leaderboardSeen = true
		}
	}
	if !resultSeen || !leaderboardSeen {
		t.Fatalf("expected result and leaderboard, got result=%v leaderboard=%v", resultSeen, leaderboardSeen)
	}

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "error")
}

func TestWebSocketRejectsUnknownUser(t *testing.T) {
	service := newTestService(t)
	server := httptest.NewServer(NewRouter(service, NewWSHandler(service, logging.Discard())))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?userId=ghost"
	if _, _, err := websocket.DefaultDialer.Dial(u, nil); err == nil {
		t.Fatalf("expected dial to fail for unknown user")
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func TestDeliverStopsWhenWriterIsGone(t *testing.T) {
	send := make(chan outboundMessage[any], 1)
	writerDone := make(chan struct{})

	if !deliver(send, writerDone, outboundMessage[any]{Type: "result"}) {
		t.Fatalf("expected delivery while the writer is running")
	}

	close(writerDone)
	result := make(chan bool, 1)
	go func() {
		result <- deliver(send, writerDone, outboundMessage[any]{Type: "result"})
	}()
	select {
	case ok := <-result:
		if ok {
			t.Fatalf("expected delivery to fail once the writer stopped")
		}
	case <-time.After(time.Second):
		t.Fatalf("deliver blocked on a full queue after the writer stopped")
	}
}
