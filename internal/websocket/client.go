package websocket

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	gorilla "github.com/gorilla/websocket"

	"techradar-api/internal/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type Client struct {
	hub    *Hub
	conn   *gorilla.Conn
	send   chan []byte
	userID int64
}

// Handler upgrades admin requests into a read-only event feed.
type Handler struct {
	hub      *Hub
	upgrader gorilla.Upgrader
	logger   *slog.Logger
}

func NewHandler(hub *Hub, origins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	allowAll := len(origins) == 0 || slices.Contains(origins, "*")

	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(origins, origin)
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("event feed upgrade failed", "error", err)
		return
	}

	client := &Client{hub: h.hub, conn: conn, send: make(chan []byte, sendBuffer)}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		client.userID = claims.UserID
	}

	if !h.hub.submit(h.hub.register, client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only drains control frames so close and pong are observed.
func (c *Client) readPump() {
	defer func() {
		c.hub.submit(c.hub.unregister, c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(gorilla.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(gorilla.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(gorilla.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
