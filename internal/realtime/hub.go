// Package realtime pushes committed reservation and table events to floor
// staff over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/iliyamo/restaurant-reservation/internal/metrics"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
)

// ErrHubClosed is returned by Publish once Run has returned.
var ErrHubClosed = errors.New("realtime: hub closed")

const (
	broadcastBuffer = 64
	clientBuffer    = 16
)

// Hub owns the set of connected clients.  All membership changes and
// broadcasts go through Run's goroutine, so the client map needs no lock.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*client]struct{}
	count      atomic.Int64
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.detach(c)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount()
			h.logger.Debug("floor client attached", slog.String("remote", c.remote))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.detach(c)
				h.logger.Debug("floor client detached", slog.String("remote", c.remote))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn("floor client too slow, dropping", slog.String("remote", c.remote))
					h.detach(c)
				}
			}
		}
	}
}

func (h *Hub) detach(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount()
}

func (h *Hub) setCount() {
	n := int64(len(h.clients))
	h.count.Store(n)
	metrics.FloorClients.Set(float64(n))
}

// Clients returns the number of attached clients.
func (h *Hub) Clients() int { return int(h.count.Load()) }

// Publish queues ev for every attached client.  It implements
// queue.Publisher so the hub can sit next to the broker publishers.
func (h *Hub) Publish(ctx context.Context, ev queue.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) attach(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
