package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub streams broker events to every connected dashboard client.
type Hub struct {
	sub        *notify.Subscription
	upgrader   websocket.Upgrader
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub builds a hub fed by sub. An empty origin list or "*" accepts any origin.
func NewHub(sub *notify.Subscription, allowedOrigins []string) *Hub {
	return &Hub{
		sub:        sub,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}

// Run owns the client set until ctx is done or the subscription closes.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", zap.String("remote", client.remote))

		case client := <-h.unregister:
			h.remove(client)

		case evt, ok := <-h.sub.C():
			if !ok {
				return
			}
			h.broadcast(evt)
		}
	}
}

func (h *Hub) broadcast(evt notify.Event) {
	message, err := json.Marshal(evt)
	if err != nil {
		logger.Error("Failed to encode event for websocket",
			zap.String("event", string(evt.Type)),
			zap.Error(err),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// slow client: drop it rather than stall the stream
			logger.Warn("WebSocket client too slow, disconnecting", zap.String("remote", client.remote))
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		logger.Debug("WebSocket client unregistered", zap.String("remote", client.remote))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// ClientCount reports connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		remote: conn.RemoteAddr().String(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	case <-c.Request.Context().Done():
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
