package capslock

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// keyEvent is sent by the page on every keydown and keyup.
type keyEvent struct {
	CapsLock bool `json:"caps_lock"`
}

// overlayMessage tells the page whether the overlay is mounted.
type overlayMessage struct {
	Type string `json:"type"` // "overlay" or "error"
	On   bool   `json:"on"`
	Err  string `json:"error,omitempty"`
}

// Handler serves the caps-lock channel. Each page connection owns one Flag
// for its lifetime.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("capslock: websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	var (
		flag    Flag
		writeMu sync.Mutex
	)
	send := func(msg overlayMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("capslock: write", zap.Error(err))
		}
	}

	unsubscribe := flag.Subscribe(func(on bool) {
		send(overlayMessage{Type: "overlay", On: on})
	})
	defer unsubscribe()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("capslock: websocket read", zap.Error(err))
			}
			return
		}

		var ev keyEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			send(overlayMessage{Type: "error", On: flag.On(), Err: "invalid message format"})
			continue
		}
		flag.Set(ev.CapsLock)
	}
}
