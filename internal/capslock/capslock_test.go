package capslock

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFlagNotifiesOnChangeOnly(t *testing.T) {
	var f Flag
	var got []bool
	unsubscribe := f.Subscribe(func(on bool) { got = append(got, on) })

	f.Set(false) // unchanged
	f.Set(true)
	f.Set(true) // unchanged
	f.Set(false)

	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Fatalf("unexpected notifications %v", got)
	}

	unsubscribe()
	unsubscribe()
	f.Set(true)
	if len(got) != 2 {
		t.Errorf("notified after unsubscribe: %v", got)
	}
	if f.Subscribers() != 0 {
		t.Errorf("expected no subscribers, got %d", f.Subscribers())
	}
	if !f.On() {
		t.Error("expected flag to be on")
	}
}

func TestFlagSubscriptionOrder(t *testing.T) {
	var f Flag
	var order []string
	f.Subscribe(func(bool) { order = append(order, "a") })
	unsubB := f.Subscribe(func(bool) { order = append(order, "b") })
	f.Subscribe(func(bool) { order = append(order, "c") })

	f.Set(true)
	unsubB()
	f.Set(false)

	if got := strings.Join(order, ""); got != "abcac" {
		t.Errorf("unexpected order %q", got)
	}
}

func TestHandlerTogglesOverlay(t *testing.T) {
	srv := httptest.NewServer(NewHandler(nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() overlayMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg overlayMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	// Released caps lock on a fresh flag is not a change: no message.
	if err := conn.WriteJSON(keyEvent{CapsLock: false}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(keyEvent{CapsLock: true}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != "overlay" || !msg.On {
		t.Fatalf("expected overlay on, got %+v", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != "error" || !msg.On {
		t.Fatalf("expected error with overlay still on, got %+v", msg)
	}

	if err := conn.WriteJSON(keyEvent{CapsLock: false}); err != nil {
		t.Fatal(err)
	}
	if msg := read(); msg.Type != "overlay" || msg.On {
		t.Fatalf("expected overlay off, got %+v", msg)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
