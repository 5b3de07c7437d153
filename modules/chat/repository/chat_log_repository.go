package repository

import (
	"context"

	"github.com/google/uuid"

	"schedulai/core/database"
	"schedulai/core/logger"
	"schedulai/modules/chat/entity"
)

// ChatLogRepositoryInterface defines the transcript store contract.
type ChatLogRepositoryInterface interface {
	Insert(ctx context.Context, log *entity.ChatLog) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]entity.ChatLog, error)
	ClearByUserID(ctx context.Context, userID uuid.UUID) error
}

// ChatLogRepository persists conversation turns.
type ChatLogRepository struct {
	DB database.IDatabase
}

// NewChatLogRepository creates a new repository instance
func NewChatLogRepository(db database.IDatabase) *ChatLogRepository {
	return &ChatLogRepository{DB: db}
}

func (r *ChatLogRepository) Insert(ctx context.Context, log *entity.ChatLog) error {
	query := `
		INSERT INTO chat_logs (user_id, user_message, bot_response)
		VALUES ($1, $2, $3)
	`

	err := r.DB.ExecContext(ctx, query, log.UserID, log.UserMessage, log.BotResponse)
	if err != nil {
		logger.Error("ChatLogRepository:Insert", "error", err)
		return err
	}

	return nil
}

func (r *ChatLogRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]entity.ChatLog, error) {
	query := `
		SELECT id, user_id, user_message, bot_response, created_at
		FROM chat_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var logs []entity.ChatLog
	err := r.DB.SelectContext(ctx, &logs, query, userID, limit)
	if err != nil {
		logger.Error("ChatLogRepository:ListByUserID", "error", err)
		return nil, err
	}

	return logs, nil
}

func (r *ChatLogRepository) ClearByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM chat_logs WHERE user_id = $1`

	err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		logger.Error("ChatLogRepository:ClearByUserID", "error", err)
		return err
	}

	return nil
}
