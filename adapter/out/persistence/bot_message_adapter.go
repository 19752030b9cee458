package persistence

import (
	"context"
	"fmt"

	"github.com/ArthurBash/telegramBot/core/domain"

	"github.com/jmoiron/sqlx"
)

// =============================================================================
// Message Adapter
// =============================================================================

// MessageAdapter implements domain.MessageRepository on Postgres.
type MessageAdapter struct {
	db *sqlx.DB
}

// NewMessageAdapter creates a new MessageAdapter.
func NewMessageAdapter(db *sqlx.DB) *MessageAdapter {
	return &MessageAdapter{db: db}
}

// Create inserts a categorized message.
func (a *MessageAdapter) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (telegram_chat_id, telegram_user_id, username, chat_type, message_text, category, confidence_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := a.db.QueryRowContext(ctx, query,
		msg.TelegramChatID, msg.TelegramUserID, msg.Username,
		msg.ChatType, msg.MessageText, msg.Category, msg.ConfidenceScore,
	).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// CountAll returns the total number of stored messages.
func (a *MessageAdapter) CountAll(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM messages`

	if err := a.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}

// CountByCategory returns the number of messages stored per category,
// most frequent first.
func (a *MessageAdapter) CountByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	var rows []struct {
		Category string `db:"category"`
		Count    int64  `db:"count"`
	}
	query := `
		SELECT category, COUNT(*) AS count
		FROM messages
		GROUP BY category
		ORDER BY count DESC, category ASC`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count messages by category: %w", err)
	}

	counts := make([]domain.CategoryCount, len(rows))
	for i, row := range rows {
		counts[i] = domain.CategoryCount{Category: row.Category, Count: row.Count}
	}

	return counts, nil
}

// AverageConfidenceByCategory returns the mean confidence score per
// category, highest first.
func (a *MessageAdapter) AverageConfidenceByCategory(ctx context.Context) ([]domain.CategoryConfidence, error) {
	var rows []struct {
		Category   string  `db:"category"`
		Confidence float64 `db:"confidence"`
	}
	query := `
		SELECT category, AVG(confidence_score) AS confidence
		FROM messages
		GROUP BY category
		ORDER BY confidence DESC, category ASC`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to average confidence by category: %w", err)
	}

	confidences := make([]domain.CategoryConfidence, len(rows))
	for i, row := range rows {
		confidences[i] = domain.CategoryConfidence{Category: row.Category, AverageConfidence: row.Confidence}
	}

	return confidences, nil
}
