package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub рассылает снимки состояния подключённым браузерам по WebSocket.
type Hub struct {
	state *State
	log   *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func NewHub(state *State, log *zap.Logger) *Hub {
	return &Hub{state: state, log: log, clients: make(map[*websocket.Conn]chan []byte)}
}

// Broadcast отправляет текущее состояние всем клиентам.
// Клиент с заполненной очередью пропускает обновление: следующее всё равно несёт полный снимок.
func (h *Hub) Broadcast() {
	msg, err := json.Marshal(h.state.Snapshot())
	if err != nil {
		h.log.Error("marshal snapshot", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Clients возвращает число подключений.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS переводит запрос в WebSocket и держит подключение до закрытия.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade", zap.Error(err))
		return
	}

	send := make(chan []byte, 4)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	if msg, err := json.Marshal(h.state.Snapshot()); err == nil {
		send <- msg
	}

	go h.writePump(conn, send)
	h.readPump(conn)

	h.mu.Lock()
	delete(h.clients, conn)
	close(send)
	h.mu.Unlock()
}

// readPump читает до ошибки, чтобы заметить закрытие и получать pong.
func (h *Hub) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, send <-chan []byte) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
