package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (
			id, consultation_id, sender_id, content, message_type, file_url,
			is_read, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	message.ID = uuid.New()
	message.CreatedAt = time.Now()
	message.UpdatedAt = time.Now()
	if message.MessageType == "" {
		message.MessageType = model.MessageTypeText
	}

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.ConsultationID,
		message.SenderID,
		message.Content,
		message.MessageType,
		message.FileURL,
		message.IsRead,
		message.CreatedAt,
		message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
		SELECT id, consultation_id, sender_id, content, message_type, file_url,
			   is_read, read_at, created_at, updated_at
		FROM messages
		WHERE id = $1
	`
	var message model.Message
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("message", err)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &message, nil
}

func (r *messageRepository) List(ctx context.Context, filters *model.MessageFilters) ([]*model.Message, error) {
	query := `
		SELECT id, consultation_id, sender_id, content, message_type, file_url,
			   is_read, read_at, created_at, updated_at
		FROM messages
		WHERE consultation_id = $1
	`
	args := []interface{}{filters.ConsultationID}
	argCount := 2

	if filters.UnreadOnly {
		query += " AND is_read = false"
	}

	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkRead marks all messages in the consultation that were sent by the
// other party as read.
func (r *messageRepository) MarkRead(ctx context.Context, consultationID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = true, read_at = $1, updated_at = $1
		WHERE consultation_id = $2 AND sender_id != $3 AND is_read = false
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), consultationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected()
}
