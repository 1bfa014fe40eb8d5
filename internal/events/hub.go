package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Hub fans out Events to every currently-registered subscriber. It
// never blocks a publisher on a slow subscriber: a subscriber whose
// send buffer fills is dropped rather than stalling Broadcast.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*subscriber]struct{})}
}

// Broadcast delivers ev to every connected subscriber.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.send <- ev:
		default:
			slog.Warn("events: dropping slow subscriber")
			go h.unregister(sub)
		}
	}
}

func (h *Hub) register(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub] = struct{}{}
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	if ok {
		delete(h.subscribers, sub)
	}
	h.mu.Unlock()

	if ok {
		close(sub.send)
		sub.conn.Close()
	}
}

// Serve upgrades conn into a subscriber and pumps events to it until
// the connection closes. It blocks until the connection is done, so
// callers run it in its own goroutine per connection.
func (h *Hub) Serve(conn *websocket.Conn) {
	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer)}
	h.register(sub)
	defer h.unregister(sub)

	go sub.readPump()
	sub.writePump()
}

func (s *subscriber) readPump() {
	defer s.conn.Close()
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				slog.Error("events: marshal failed", "error", err)
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
