package push

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Hub multiplexes live websocket connections per user. Delivery is
// best-effort: a failed write drops the connection and bumps a counter, the
// caller is never blocked on a dead socket. The durable notification store
// is the source of truth; this channel is advisory only.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]map[*connection]struct{}
	logger  *slog.Logger
	dropped atomic.Int64
}

type connection struct {
	ws     *websocket.Conn
	userID string

	writeMu sync.Mutex
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		conns:  make(map[string]map[*connection]struct{}),
		logger: logger,
	}
}

// Register attaches a websocket to a user and returns a detach func the
// transport calls when the socket closes.
func (h *Hub) Register(userID string, ws *websocket.Conn) func() {
	conn := &connection{ws: ws, userID: userID}

	h.mu.Lock()
	if _, ok := h.conns[userID]; !ok {
		h.conns[userID] = make(map[*connection]struct{})
	}
	h.conns[userID][conn] = struct{}{}
	total := len(h.conns[userID])
	h.mu.Unlock()

	h.logger.Info("push connection registered",
		"event", "push_connection_registered",
		"module", "internal/platform/push",
		"layer", "platform",
		"user_id", userID,
		"user_connections", total,
	)
	return func() { h.remove(conn) }
}

// PushToUser writes the payload to every live connection of one user.
func (h *Hub) PushToUser(userID string, payload any) error {
	h.mu.RLock()
	targets := make([]*connection, 0, len(h.conns[userID]))
	for conn := range h.conns[userID] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		h.write(conn, payload)
	}
	return nil
}

// Broadcast writes the payload to every live connection.
func (h *Hub) Broadcast(payload any) error {
	h.mu.RLock()
	targets := make([]*connection, 0)
	for _, conns := range h.conns {
		for conn := range conns {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		h.write(conn, payload)
	}
	return nil
}

// DroppedCount is the number of failed writes since startup; exposed so a
// systemically broken push channel is visible to operators.
func (h *Hub) DroppedCount() int64 {
	return h.dropped.Load()
}

// Heartbeat pings all connections on the interval until ctx is done,
// dropping the ones that stopped answering.
func (h *Hub) Heartbeat(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.RLock()
			targets := make([]*connection, 0)
			for _, conns := range h.conns {
				for conn := range conns {
					targets = append(targets, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range targets {
				conn.writeMu.Lock()
				err := conn.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				conn.writeMu.Unlock()
				if err != nil {
					h.remove(conn)
				}
			}
		}
	}
}

func (h *Hub) write(conn *connection, payload any) {
	conn.writeMu.Lock()
	err := conn.ws.WriteJSON(payload)
	conn.writeMu.Unlock()
	if err != nil {
		h.dropped.Add(1)
		h.logger.Warn("push write failed",
			"event", "push_write_failed",
			"module", "internal/platform/push",
			"layer", "platform",
			"user_id", conn.userID,
			"dropped_total", h.dropped.Load(),
			"error", err.Error(),
		)
		h.remove(conn)
	}
}

func (h *Hub) remove(conn *connection) {
	h.mu.Lock()
	if conns, ok := h.conns[conn.userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, conn.userID)
		}
	}
	h.mu.Unlock()
	_ = conn.ws.Close()
}
