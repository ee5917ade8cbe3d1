package domain

import (
	"context"
	"time"
)

// ChatMessage is the durable record of one broadcast chat message.
// ID is a UUID generated once per message; the same value is stored here and
// delivered to room members, so history and live delivery always agree.
type ChatMessage struct {
	ID        string    `json:"id"`
	BatchID   int64     `json:"batch_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserRole  string    `json:"user_role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatMessageRepository defines the interface for chat message persistence
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *ChatMessage) error
	ListByBatch(ctx context.Context, batchID int64) ([]*ChatMessage, error)
}
