package live

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nisim1010/Bingo-Game/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client represents one connected SSE consumer
type Client struct {
	playerID    model.PlayerID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client
func NewClient(playerID model.PlayerID) *Client {
	return &Client{
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

type message struct {
	event string
	data  []byte
}

// Hub fans SSE messages out to every client watching one stream
// (a game's feed, or the leaderboard feed). The latest message of
// each event type is replayed to newly registered clients, so a
// subscriber always starts from the current snapshot rather than
// waiting for the next change.
type Hub struct {
	name    string
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	replay     map[string][]byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub
func NewHub(name string, logger *slog.Logger) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("stream", name)),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		replay:     make(map[string][]byte),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			for _, cached := range h.replay {
				select {
				case client.send <- cached:
				default:
				}
			}
			h.logger.Info("sse client registered",
				slog.String("player_id", string(client.playerID)),
				slog.Int("total_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", count))
			} else {
				h.mu.Unlock()
			}

		case msg := <-h.broadcast:
			h.replay[msg.event] = msg.data
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop rather than stall the hub
					h.logger.Warn("sse message dropped - client buffer full",
						slog.String("player_id", string(client.playerID)))
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped")
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent sends a named SSE event to all clients
func (h *Hub) BroadcastEvent(eventName, data string) {
	msg := message{event: eventName, data: formatSSEMessage(eventName, data)}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats a wire-level SSE event. Each line of data
// gets its own "data: " prefix per the SSE framing rules.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteByte('\n')
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// ServeSSE pins an HTTP request to a hub and streams messages until
// the client disconnects or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(playerID)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
