package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type userMessage struct {
	userID  uuid.UUID
	payload []byte
}

// Hub tracks live websocket clients per user and fans messages out to them.
// All map mutations happen on the Run goroutine.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	push       chan userMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		push:       make(chan userMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
			total := h.countLocked()
			h.mutex.Unlock()
			h.logf("WS connected | user_id=%s total_clients=%d", client.userID, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.removeLocked(client)
			total := h.countLocked()
			h.mutex.Unlock()
			h.logf("WS disconnected | user_id=%s total_clients=%d", client.userID, total)

		case msg := <-h.push:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.userID]))
			for c := range h.clients[msg.userID] {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			var slow []*Client
			for _, client := range targets {
				select {
				case client.send <- msg.payload:
				default:
					slow = append(slow, client)
				}
			}
			if len(slow) > 0 {
				h.mutex.Lock()
				for _, c := range slow {
					h.removeLocked(c)
				}
				h.mutex.Unlock()
				h.logf("WS dropped slow clients | user_id=%s count=%d", msg.userID, len(slow))
			}
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// PushToUser queues message for every live client of userID. It reports
// false when the hub's buffer is full and the message was dropped.
func (h *Hub) PushToUser(userID uuid.UUID, message []byte) bool {
	if h == nil {
		return false
	}
	select {
	case h.push <- userMessage{userID: userID, payload: message}:
		return true
	default:
		h.logf("WS push dropped | user_id=%s reason=buffer_full", userID)
		return false
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}

func (h *Hub) UserClientCount(userID uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}
