package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventNotification is the single event name carrying every notification payload.
const EventNotification = "notification"

const rolePrefix = "role:"

// Channel pushes payloads to connected clients. Delivery is fire-and-forget.
type Channel interface {
	SendToUser(userKey string, payload any)
	SendToRole(role string, payload any)
	Broadcast(payload any)
}

// Frame is the JSON message written to sockets.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Conn is the write side of a socket.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

const (
	outboundBuffer = 16
	writeWait      = 10 * time.Second
)

var errOutboundFull = errors.New("outbound queue full")

// Client is one live connection. A user may hold several at once.
// Frames are queued and written by writePump, so a slow socket never
// blocks the goroutine that pushes to it.
type Client struct {
	ID string

	conn      Conn
	out       chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		out:  make(chan Frame, outboundBuffer),
		done: make(chan struct{}),
	}
}

// send queues frame without blocking. The frame is dropped when the queue is full.
func (c *Client) send(frame Frame) error {
	select {
	case <-c.done:
		return nil
	default:
	}
	select {
	case c.out <- frame:
		return nil
	default:
		return errOutboundFull
	}
}

// writePump writes queued frames until close is called or a write fails.
// A failed write closes the socket, which ends the read loop in Serve.
func (c *Client) writePump() {
	deadliner, _ := c.conn.(interface{ SetWriteDeadline(time.Time) error })
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.out:
			if deadliner != nil {
				_ = deadliner.SetWriteDeadline(time.Now().Add(writeWait))
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				slog.Debug("realtime write failed", "component", "realtime", "connection_id", c.ID, "error", err)
				c.close()
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// RoomForRole is the registry key of a role's broadcast room.
func RoomForRole(role string) string {
	return rolePrefix + role
}

// Hub is the process-wide registry of connections keyed by user identity or role room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*Client)}
}

// Track registers c under key.
func (h *Hub) Track(key string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[key]
	if !ok {
		clients = make(map[string]*Client)
		h.rooms[key] = clients
	}
	clients[c.ID] = c
}

// Release removes c from key. The key disappears once its last connection is gone.
func (h *Hub) Release(key string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[key]
	if !ok {
		return
	}
	delete(clients, c.ID)
	if len(clients) == 0 {
		delete(h.rooms, key)
	}
}

func (h *Hub) ConnectionsOf(key string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.rooms[key]))
	for _, c := range h.rooms[key] {
		clients = append(clients, c)
	}
	return clients
}

// Join tracks c under the user's key and every role room the user belongs to.
func (h *Hub) Join(c *Client, userKey string, roles []string) {
	h.Track(userKey, c)
	for _, role := range roles {
		h.Track(RoomForRole(role), c)
	}
}

func (h *Hub) Leave(c *Client, userKey string, roles []string) {
	h.Release(userKey, c)
	for _, role := range roles {
		h.Release(RoomForRole(role), c)
	}
}

func (h *Hub) SendToUser(userKey string, payload any) {
	h.deliver(h.ConnectionsOf(userKey), payload)
}

func (h *Hub) SendToRole(role string, payload any) {
	h.deliver(h.ConnectionsOf(RoomForRole(role)), payload)
}

func (h *Hub) Broadcast(payload any) {
	h.mu.RLock()
	seen := make(map[string]*Client)
	for _, clients := range h.rooms {
		for id, c := range clients {
			seen[id] = c
		}
	}
	h.mu.RUnlock()

	all := make([]*Client, 0, len(seen))
	for _, c := range seen {
		all = append(all, c)
	}
	h.deliver(all, payload)
}

func (h *Hub) deliver(clients []*Client, payload any) {
	frame := Frame{Event: EventNotification, Data: payload}
	for _, c := range clients {
		if err := c.send(frame); err != nil {
			slog.Warn("realtime frame dropped", "component", "realtime", "connection_id", c.ID, "error", err)
		}
	}
}
