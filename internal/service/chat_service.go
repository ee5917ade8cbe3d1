package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"edubatch/internal/domain"
)

const maxMessageLength = 1000

// ChatService records chat messages and serves room history. The message id
// is generated here, exactly once per message, so the persisted row and the
// broadcast frame always carry the same identifier.
type ChatService struct {
	messageRepo domain.ChatMessageRepository
}

func NewChatService(messageRepo domain.ChatMessageRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo}
}

// RecordMessage validates, stamps and durably persists one inbound message.
// On success msg.ID and msg.Timestamp are set; the caller must broadcast the
// same values. On failure nothing was recorded and nothing may be broadcast.
func (s *ChatService) RecordMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if len(msg.Message) == 0 || len(msg.Message) > maxMessageLength {
		return domain.ErrInvalidInput
	}

	msg.ID = uuid.New().String()
	msg.Timestamp = time.Now().UTC()

	return s.messageRepo.Create(ctx, msg)
}

// History returns a batch's messages in timestamp order.
func (s *ChatService) History(ctx context.Context, batchID int64) ([]*domain.ChatMessage, error) {
	return s.messageRepo.ListByBatch(ctx, batchID)
}
