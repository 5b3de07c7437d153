package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatLog is one stored conversation turn.
type ChatLog struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	UserMessage string    `db:"user_message" json:"user_message"`
	BotResponse string    `db:"bot_response" json:"bot_response"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
