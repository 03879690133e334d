package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mfriesen/boardsync/internal/model"
)

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := strings.Replace(ts.URL, "http", "ws", 1) + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s failed: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env.Type, raw
}

func TestWebSocketSessionFlow(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	// First client receives an empty sync on connect.
	a := dial(t, ts, "/ws/r1/alice")
	msgType, raw := readEnvelope(t, a)
	if msgType != model.TypeSync {
		t.Fatalf("first message = %q, want sync", msgType)
	}
	var sync model.SyncMessage
	if err := json.Unmarshal(raw, &sync); err != nil {
		t.Fatalf("decode sync: %v", err)
	}
	if len(sync.Data.State) != 0 {
		t.Errorf("fresh room sync has %d elements, want 0", len(sync.Data.State))
	}

	// Second client: alice is told about the join.
	b := dial(t, ts, "/ws/r1/bob")
	if msgType, _ = readEnvelope(t, b); msgType != model.TypeSync {
		t.Fatalf("bob's first message = %q, want sync", msgType)
	}
	msgType, raw = readEnvelope(t, a)
	if msgType != model.TypeUserJoined {
		t.Fatalf("alice received %q, want user_joined", msgType)
	}
	var presence model.PresenceMessage
	if err := json.Unmarshal(raw, &presence); err != nil {
		t.Fatalf("decode presence: %v", err)
	}
	if presence.ClientID != "bob" {
		t.Errorf("user_joined clientId = %q, want bob", presence.ClientID)
	}

	// Alice draws; bob gets the relay with senderId.
	op := `{"type":"operation","data":{"id":"e1","timestamp":100,"kind":"rect"}}`
	if err := a.WriteMessage(websocket.TextMessage, []byte(op)); err != nil {
		t.Fatalf("write operation: %v", err)
	}
	msgType, raw = readEnvelope(t, b)
	if msgType != model.TypeOperation {
		t.Fatalf("bob received %q, want operation", msgType)
	}
	var relayed model.OperationMessage
	if err := json.Unmarshal(raw, &relayed); err != nil {
		t.Fatalf("decode operation: %v", err)
	}
	if relayed.SenderID != "alice" || relayed.Data.ID != "e1" {
		t.Errorf("relay = sender %q element %q, want alice/e1", relayed.SenderID, relayed.Data.ID)
	}

	// Heartbeat.
	if err := b.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if msgType, _ = readEnvelope(t, b); msgType != model.TypePong {
		t.Errorf("ping answered with %q, want pong", msgType)
	}

	// Bob leaves; alice is told.
	b.Close()
	msgType, raw = readEnvelope(t, a)
	if msgType != model.TypeUserLeft {
		t.Fatalf("alice received %q, want user_left", msgType)
	}
	if err := json.Unmarshal(raw, &presence); err != nil {
		t.Fatalf("decode presence: %v", err)
	}
	if presence.ClientID != "bob" {
		t.Errorf("user_left clientId = %q, want bob", presence.ClientID)
	}
}

func TestLateJoinerReceivesPersistedState(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	a := dial(t, ts, "/ws/r1/alice")
	readEnvelope(t, a) // sync

	op := `{"type":"operation","data":{"id":"e1","timestamp":100}}`
	if err := a.WriteMessage(websocket.TextMessage, []byte(op)); err != nil {
		t.Fatalf("write operation: %v", err)
	}

	// The accepted operation is saved before the broadcast returns, but
	// give the server a moment to finish dispatching.
	deadline := time.Now().Add(2 * time.Second)
	for {
		c := dial(t, ts, "/ws/r1/late-"+time.Now().Format("150405.000000000"))
		_, raw := readEnvelope(t, c)
		var sync model.SyncMessage
		if err := json.Unmarshal(raw, &sync); err != nil {
			t.Fatalf("decode sync: %v", err)
		}
		c.Close()
		if el, ok := sync.Data.State["e1"]; ok {
			if el.Timestamp != 100 {
				t.Errorf("sync e1 timestamp = %v, want 100", el.Timestamp)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("late joiner never saw e1 in sync state")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDuplicateClientIDRejected(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	a := dial(t, ts, "/ws/r1/alice")
	readEnvelope(t, a) // sync

	dup := dial(t, ts, "/ws/r1/alice")
	dup.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := dup.ReadMessage()
	if err == nil {
		t.Fatal("duplicate connection was not closed")
	}
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Errorf("close error = %v, want policy violation", err)
	}
}

func TestServerAssignsClientID(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	a := dial(t, ts, "/ws/r1/alice")
	readEnvelope(t, a) // sync

	// No client id in the path: the server assigns one and the join
	// notice carries it.
	anon := dial(t, ts, "/ws/r1")
	if msgType, _ := readEnvelope(t, anon); msgType != model.TypeSync {
		t.Fatalf("anon first message = %q, want sync", msgType)
	}

	msgType, raw := readEnvelope(t, a)
	if msgType != model.TypeUserJoined {
		t.Fatalf("alice received %q, want user_joined", msgType)
	}
	var presence model.PresenceMessage
	if err := json.Unmarshal(raw, &presence); err != nil {
		t.Fatalf("decode presence: %v", err)
	}
	if presence.ClientID == "" {
		t.Error("server-assigned clientId is empty")
	}
}
