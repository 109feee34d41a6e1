package websocket

import (
	"sync"

	"github.com/dropfour/connect4/internal/domain"
)

// Hub tracks the sockets following each game and fans engine events out to
// them. It implements game.EventSink.
type Hub struct {
	rooms map[string]map[*Client]struct{} // gameID → clients
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.gameID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.gameID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.gameID)
	}
}

// Publish queues event for every socket of gameID without blocking.
func (h *Hub) Publish(gameID string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ev := event
	msg := ServerMessage{Type: "event", GameID: gameID, Event: &ev}
	for c := range h.rooms[gameID] {
		c.enqueue(msg)
	}
}

// Count returns how many sockets follow gameID.
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}
