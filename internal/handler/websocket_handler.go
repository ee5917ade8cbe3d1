package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"edubatch/internal/domain"
	"edubatch/internal/service"
	ws "edubatch/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers cannot set custom headers on websocket dials, so the
		// token rides the query string and origin stays unrestricted.
		return true
	},
}

// WebSocketHandler admits connections into batch chat rooms. The connection
// is upgraded first and only then gated: a failed check is reported on the
// socket as a close frame (policy violation for auth failures, internal
// error for lookup faults), which browser clients can actually observe,
// unlike a plain HTTP error.
type WebSocketHandler struct {
	hub         *ws.Hub
	verifier    *service.TokenVerifier
	authz       *service.AuthzService
	chatService *service.ChatService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub, verifier *service.TokenVerifier, authz *service.AuthzService, chatService *service.ChatService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		verifier:    verifier,
		authz:       authz,
		chatService: chatService,
	}
}

// HandleConnection handles WebSocket upgrade and room admission
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	batchID, err := urlParamInt64(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid batch ID")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		closeWith(conn, websocket.ClosePolicyViolation, "missing token")
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, "authentication failed")
		return
	}

	if err := h.authz.AuthorizeRoom(r.Context(), claims, batchID); err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) || errors.Is(err, domain.ErrNotAuthenticated) {
			closeWith(conn, websocket.ClosePolicyViolation, "not authorized for this room")
		} else {
			slog.Error("room authorization lookup failed",
				slog.Int64("user_id", claims.UserID),
				slog.Int64("batch_id", batchID),
				slog.String("error", err.Error()))
			closeWith(conn, websocket.CloseInternalServerErr, "internal error")
		}
		return
	}

	// The request context dies when this handler returns; the client
	// outlives it, so its lifetime starts from a fresh root.
	client := ws.NewClient(context.Background(), h.hub, conn, claims, batchID, h.chatService)
	h.hub.Register(client)
	client.SendInit()

	go client.WritePump()
	go client.ReadPump()
}

// closeWith sends a close frame with the given code and closes the socket.
func closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}
