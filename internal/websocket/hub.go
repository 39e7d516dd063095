package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"techradar-api/internal/event"
)

// Hub fans domain events out to every connected admin feed.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	bus    event.Bus
	logger *slog.Logger
}

func NewHub(bus event.Bus, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		bus:        bus,
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled. ready, when non-nil, is
// closed once the bus subscription exists.
func (h *Hub) Run(ctx context.Context, ready chan<- struct{}) {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()
	defer close(h.done)
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("event feed connected", "user_id", client.userID, "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("event feed disconnected", "user_id", client.userID, "clients", len(h.clients))
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			message, err := json.Marshal(e)
			if err != nil {
				h.logger.Error("failed to marshal event", "event_id", e.ID, "error", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow reader; it reconnects and reads history from the audit log.
					h.logger.Warn("event feed too slow, closing", "user_id", client.userID)
					h.drop(client)
				}
			}
		}
	}
}

// submit hands a client to Run, giving up once the hub has stopped.
func (h *Hub) submit(ch chan<- *Client, client *Client) bool {
	select {
	case ch <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}
