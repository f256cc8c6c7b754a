package dash

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served and consumed on the same host; the usual
	// same-origin check gets in the way of ad-hoc port forwards.
	CheckOrigin: func(*http.Request) bool { return true },
}

// liveHub fans committed state snapshots out to connected websocket clients.
// Each client gets a buffered send queue; a client that cannot keep up is
// dropped rather than allowed to stall the publishing goroutine.
type liveHub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func newLiveHub(log *slog.Logger) *liveHub {
	return &liveHub{
		log:     log,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// broadcast queues msg for every connected client.
func (h *liveHub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- msg:
		default:
			h.log.Debug("dropping slow live client", "remote", conn.RemoteAddr())
			close(send)
			delete(h.clients, conn)
			_ = conn.Close() // ignore error
		}
	}
}

// serve upgrades the request and pumps snapshots until the client goes away.
// initial is sent immediately so a fresh page render never waits for the
// next state change.
func (h *liveHub) serve(w http.ResponseWriter, r *http.Request, initial []byte) {
	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	send := make(chan []byte, 16)
	send <- initial

	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	// Reader: the client never sends anything meaningful; we read only to
	// learn about closes.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()

	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(conn)
			return
		}
	}
}

// drop unregisters a client. Safe to call twice; the second call finds
// nothing to do.
func (h *liveHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		close(send)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	_ = conn.Close() // ignore error
}

// closeAll disconnects every client, used on server shutdown.
func (h *liveHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		close(send)
		delete(h.clients, conn)
		_ = conn.Close() // ignore error
	}
}
