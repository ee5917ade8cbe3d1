package websocket

import (
	"context"
	"log/slog"
	"strconv"

	"edubatch/internal/observability"
)

// RoomMessage is one payload to fan out to a room.
type RoomMessage struct {
	BatchID int64
	Payload []byte
}

type membershipQuery struct {
	batchID int64
	reply   chan int
}

// Hub owns room membership: a map from batch id to the set of live clients.
// All membership mutation and broadcast iteration happen on the single
// Run goroutine, so join, leave and fan-out are linearized per hub and no
// caller ever touches the map directly. The hub is constructed at startup
// and drained on shutdown; there is no package-level instance.
type Hub struct {
	rooms map[int64]map[*Client]bool

	broadcast  chan *RoomMessage
	register   chan *Client
	unregister chan *Client
	query      chan membershipQuery
	done       chan struct{}

	// bridge, when set, propagates broadcasts through the shared
	// key-value broker so rooms span server instances.
	bridge *Bridge
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[int64]map[*Client]bool),
		broadcast:  make(chan *RoomMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		query:      make(chan membershipQuery),
		done:       make(chan struct{}),
	}
}

// AttachBridge enables cross-instance fan-out. Must be called before Run.
func (h *Hub) AttachBridge(b *Bridge) {
	h.bridge = b
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			slog.Info("hub shutting down gracefully")
			return ctx.Err()

		case client := <-h.register:
			room := h.rooms[client.batchID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[client.batchID] = room
			}
			// Re-registering the same client is a no-op.
			if room[client] {
				continue
			}
			room[client] = true
			observability.ChatConnectionsActive.WithLabelValues(roomLabel(client.batchID)).Inc()
			slog.Info("client joined room",
				slog.Int64("user_id", client.claims.UserID),
				slog.Int64("batch_id", client.batchID))

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.deliver(message)

		case q := <-h.query:
			q.reply <- len(h.rooms[q.batchID])
		}
	}
}

// deliver fans a payload out to every current member of the room. A peer
// whose send buffer cannot accept the payload is dropped from the room and
// delivery continues; one dead peer never blocks the rest.
func (h *Hub) deliver(message *RoomMessage) {
	clients, ok := h.rooms[message.BatchID]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.send <- message.Payload:
		default:
			observability.ChatPeersDropped.Inc()
			slog.Warn("dropping unresponsive peer",
				slog.Int64("user_id", client.claims.UserID),
				slog.Int64("batch_id", client.batchID))
			h.removeClient(client)
		}
	}
}

// removeClient takes a client out of its room, reclaiming the room entry
// when it empties. Removing an absent client is a no-op.
func (h *Hub) removeClient(client *Client) {
	clients, ok := h.rooms[client.batchID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	client.closeSend()
	observability.ChatConnectionsActive.WithLabelValues(roomLabel(client.batchID)).Dec()
	slog.Info("client left room",
		slog.Int64("user_id", client.claims.UserID),
		slog.Int64("batch_id", client.batchID))

	if len(clients) == 0 {
		delete(h.rooms, client.batchID)
	}
}

// shutdown performs graceful cleanup of all connections
func (h *Hub) shutdown() {
	close(h.done)

	for batchID, clients := range h.rooms {
		for client := range clients {
			client.closeSend()
		}
		slog.Info("closed room", slog.Int64("batch_id", batchID))
	}

	slog.Info("hub shutdown complete")
}

// Broadcast sends a payload to all clients in a room, in the order the
// calls are issued for that room. With a bridge attached the payload takes
// the broker path so every instance's members receive it; if the broker is
// unreachable delivery degrades to local members only.
func (h *Hub) Broadcast(batchID int64, payload []byte) {
	if h.bridge != nil {
		if err := h.bridge.Publish(context.Background(), batchID, payload); err == nil {
			return
		}
		observability.StoreDegraded.WithLabelValues("chat_bridge").Inc()
		slog.Warn("chat bridge publish failed, delivering locally",
			slog.Int64("batch_id", batchID))
	}
	h.enqueue(batchID, payload)
}

// enqueue hands a payload to the actor loop for local fan-out.
func (h *Hub) enqueue(batchID int64, payload []byte) {
	select {
	case h.broadcast <- &RoomMessage{BatchID: batchID, Payload: payload}:
	case <-h.done:
	}
}

// Register adds a client to its room; joining twice is a no-op.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from its room; removing twice is a no-op.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Members reports the current size of a room. Used by tests and the
// readiness endpoint; answered by the actor loop, so it is race-free.
func (h *Hub) Members(batchID int64) int {
	q := membershipQuery{batchID: batchID, reply: make(chan int, 1)}
	select {
	case h.query <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

func roomLabel(batchID int64) string {
	return strconv.FormatInt(batchID, 10)
}
