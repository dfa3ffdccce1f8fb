// Package realtime streams workflow events to websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	contractsv1 "bibliotheque/contracts/gen/events/v1"
	"bibliotheque/kernel/workflow"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// owners are the payload fields naming the member an event concerns.
type owners struct {
	SubmitterID string `json:"submitter_id"`
	BorrowerID  string `json:"borrower_id"`
	RequesterID string `json:"requester_id"`
}

func (o owners) includes(userID string) bool {
	return userID != "" && (o.SubmitterID == userID || o.BorrowerID == userID || o.RequesterID == userID)
}

type client struct {
	actor workflow.Actor
	conn  *websocket.Conn
	send  chan contractsv1.Envelope
}

// Hub fans events out to connected clients. Librarians receive every event;
// members only those about their own works, loans and requests.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan contractsv1.Envelope
	done       chan struct{}
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan contractsv1.Envelope, sendBuffer),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]struct{})
	defer func() {
		for c := range clients {
			close(c.send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case event := <-h.broadcast:
			var who owners
			_ = json.Unmarshal(event.Data, &who)
			for c := range clients {
				if !c.actor.IsLibrarian() && !who.includes(c.actor.ID) {
					continue
				}
				select {
				case c.send <- event:
				default:
					h.logger.Warn("dropping slow websocket client",
						"event", "realtime_client_dropped",
						"module", "internal/platform/realtime",
						"layer", "platform",
						"user_id", c.actor.ID,
					)
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Deliver queues event for broadcast. It is a messaging bus handler.
func (h *Hub) Deliver(ctx context.Context, event contractsv1.Envelope) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades the request and streams events to actor until either
// side closes the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, actor workflow.Actor) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			"event", "realtime_upgrade_failed",
			"module", "internal/platform/realtime",
			"layer", "platform",
			"error", err.Error(),
		)
		return
	}
	c := &client{actor: actor, conn: conn, send: make(chan contractsv1.Envelope, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	h.logger.Info("websocket client connected",
		"event", "realtime_client_connected",
		"module", "internal/platform/realtime",
		"layer", "platform",
		"user_id", actor.ID,
	)

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards inbound messages and unregisters the client once the
// connection fails.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
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

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
