package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Event is the envelope pushed to connected clients. Type matches the
// wire protocol the frontend listens on ("notification", "hired",
// "message:new", ...); Data carries the entity payload.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one live websocket connection for a user. A user may hold
// several (multiple tabs); each gets its own send queue.
type Client struct {
	ID     string
	UserID uint64
	Conn   *websocket.Conn
	Send   chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// Hub maps user IDs to their live connections. Addressing a user with
// zero connections is a silent no-op; there is no queueing or replay.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[uint64]map[*Client]struct{}{}}
}

func (h *Hub) AddClient(userID uint64, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()
	go c.keepAliveLoop()

	return c
}

func (h *Hub) RemoveClient(c *Client) {
	c.cancel()

	h.mu.Lock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()

	_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
}

// SendToUser queues ev on every connection the user currently holds.
// A full send queue drops the event rather than blocking the caller.
func (h *Hub) SendToUser(userID uint64, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.Send <- ev:
		default:
		}
	}
}

func (h *Hub) SendToUsers(userIDs []uint64, ev Event) {
	for _, id := range userIDs {
		h.SendToUser(id, ev)
	}
}

// ConnectedUsers reports how many distinct users hold at least one
// connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			cancel()
		}
	}
}
