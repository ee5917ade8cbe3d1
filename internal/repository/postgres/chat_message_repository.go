package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"edubatch/internal/domain"
)

// historyLimit caps how many messages a history query returns.
const historyLimit = 100

// ChatMessageRepository implements domain.ChatMessageRepository for
// PostgreSQL. The message id is generated by the caller, not the database,
// so the stored row and the broadcast frame always share it.
type ChatMessageRepository struct {
	db *sql.DB
}

// NewChatMessageRepository creates a new PostgreSQL chat message repository
func NewChatMessageRepository(db *sql.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// Create inserts a new chat message with its caller-assigned id
func (r *ChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, batch_id, user_id, user_name, user_role, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.BatchID,
		msg.UserID,
		msg.UserName,
		msg.UserRole,
		msg.Message,
		msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// ListByBatch retrieves recent messages for a batch, oldest first
func (r *ChatMessageRepository) ListByBatch(ctx context.Context, batchID int64) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, batch_id, user_id, user_name, user_role, message, created_at
		FROM chat_messages
		WHERE batch_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, batchID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.ChatMessage, 0, historyLimit)
	for rows.Next() {
		msg := &domain.ChatMessage{}
		err := rows.Scan(
			&msg.ID,
			&msg.BatchID,
			&msg.UserID,
			&msg.UserName,
			&msg.UserRole,
			&msg.Message,
			&msg.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	// Reverse the slice to get oldest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
