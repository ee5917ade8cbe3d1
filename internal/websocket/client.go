package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"edubatch/internal/domain"
	"edubatch/internal/observability"
	"edubatch/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // must be less than pongWait
	maxMessageSize = 4096
)

// InboundFrame is the only shape clients may send: the message text.
// Frames without a non-empty message are ignored.
type InboundFrame struct {
	Message string `json:"message"`
}

// Frame is every server-to-client payload, discriminated by Type:
// "init", "message", "leave" and "error".
type Frame struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	BatchID   int64  `json:"batch_id,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	UserRole  string `json:"user_role,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Client is one live connection, bound to exactly one room and one identity
// for its whole lifetime.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	claims      *service.Claims
	batchID     int64
	chatService *service.ChatService

	writeMu   sync.Mutex
	closed    atomic.Bool
	sendOnce  sync.Once
	ctx       context.Context
	ctxCancel context.CancelFunc
}

func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, claims *service.Claims,
	batchID int64, chatService *service.ChatService) *Client {
	clientCtx, cancel := context.WithCancel(ctx)

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		claims:      claims,
		batchID:     batchID,
		chatService: chatService,
		ctx:         clientCtx,
		ctxCancel:   cancel,
	}
}

// SendInit queues the init frame for this connection only. Called once,
// right after registration, before the pumps start.
func (c *Client) SendInit() {
	c.enqueue(&Frame{
		Type:     "init",
		UserID:   c.claims.UserID,
		UserName: c.claims.Name,
		UserRole: c.claims.Role.String(),
	})
}

// ReadPump reads inbound frames until the connection dies. Each non-empty
// message is durably recorded first; only a recorded message is broadcast,
// and the broadcast frame carries the recorded id and timestamp.
func (c *Client) ReadPump() {
	defer func() {
		c.ctxCancel()
		c.hub.Unregister(c)
		c.closeConnection()
		c.announceLeave()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log := observability.FromContext(
		observability.WithBatchID(observability.WithUserID(c.ctx, c.claims.UserID), c.batchID))

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		var inbound InboundFrame
		if err := json.Unmarshal(raw, &inbound); err != nil {
			log.Warn("ignoring malformed frame", slog.String("error", err.Error()))
			continue
		}
		if inbound.Message == "" {
			continue
		}

		msg := &domain.ChatMessage{
			BatchID:  c.batchID,
			UserID:   c.claims.UserID,
			UserName: c.claims.Name,
			UserRole: c.claims.Role.String(),
			Message:  inbound.Message,
		}

		recordCtx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
		err = c.chatService.RecordMessage(recordCtx, msg)
		cancel()
		if err != nil {
			// A message that was not durably recorded is never
			// broadcast; only the sender learns about the failure.
			log.Error("failed to record chat message", slog.String("error", err.Error()))
			c.enqueue(&Frame{Type: "error", Message: "Failed to save message"})
			continue
		}

		payload, err := json.Marshal(&Frame{
			Type:      "message",
			ID:        msg.ID,
			BatchID:   msg.BatchID,
			UserID:    msg.UserID,
			UserName:  msg.UserName,
			UserRole:  msg.UserRole,
			Message:   msg.Message,
			Timestamp: msg.Timestamp.Format(time.RFC3339Nano),
		})
		if err != nil {
			log.Error("failed to marshal message frame", slog.String("message_id", msg.ID))
			continue
		}

		c.hub.Broadcast(c.batchID, payload)
		observability.ChatMessagesBroadcast.WithLabelValues(roomLabel(c.batchID), "message").Inc()
	}
}

// announceLeave tells the remaining room members this user is gone. It runs
// after Unregister, so the departing connection is already out of the set.
func (c *Client) announceLeave() {
	payload, err := json.Marshal(&Frame{
		Type:      "leave",
		UserID:    c.claims.UserID,
		UserName:  c.claims.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}
	c.hub.Broadcast(c.batchID, payload)
	observability.ChatMessagesBroadcast.WithLabelValues(roomLabel(c.batchID), "leave").Inc()
}

// WritePump pumps queued payloads to the connection and keeps it alive with
// pings. It exits when the hub closes the send channel or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				_ = c.writeMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.writeMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue queues a frame for this connection only, without involving the
// room. Drops the frame if the connection's buffer is full.
func (c *Client) enqueue(frame *Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// writeMessage serializes writes to the connection across both pumps.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return websocket.ErrCloseSent
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// closeSend closes the outbound queue exactly once; called only from the
// hub's goroutine or after unregistration.
func (c *Client) closeSend() {
	c.sendOnce.Do(func() { close(c.send) })
}

// closeConnection closes the underlying socket exactly once.
func (c *Client) closeConnection() {
	if c.closed.CompareAndSwap(false, true) {
		c.writeMu.Lock()
		c.conn.Close()
		c.writeMu.Unlock()
	}
}
