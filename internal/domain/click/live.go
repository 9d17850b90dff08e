package click

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const liveChannel = "clinkr:clicks:live"

// Hub fans classified clicks out to connected dashboard sockets. With
// Redis configured, verdicts are published cross-instance over pub/sub;
// without it the hub broadcasts locally only.
type Hub struct {
	redisClient *redis.Client

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}

	broadcast chan []byte
}

// NewHub creates a live click feed hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		redisClient: redisClient,
		conns:       make(map[*websocket.Conn]struct{}),
		broadcast:   make(chan []byte, 256),
	}
}

// Run drains the broadcast queue and, if Redis is configured, relays
// the pub/sub channel into it. Blocks until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.redisClient != nil {
		go h.runRedisSubscriber(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.broadcast:
			h.writeAll(msg)
		}
	}
}

func (h *Hub) runRedisSubscriber(ctx context.Context) {
	sub := h.redisClient.Subscribe(ctx, liveChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case h.broadcast <- []byte(msg.Payload):
			default:
				// Slow consumers must not back up the subscriber
			}
		}
	}
}

// Publish queues one classified click for fan-out
func (h *Hub) Publish(c *Click) {
	data, err := json.Marshal(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode click for live feed")
		return
	}

	if h.redisClient != nil {
		if err := h.redisClient.Publish(context.Background(), liveChannel, data).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to publish click to Redis, broadcasting locally")
		} else {
			return
		}
	}

	select {
	case h.broadcast <- data:
	default:
	}
}

// Register adds a dashboard connection
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

// Unregister removes a dashboard connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *Hub) writeAll(msg []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.Unregister(conn)
			conn.Close()
		}
	}
}
