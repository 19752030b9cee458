package domain

import (
	"context"
	"time"
)

// =============================================================================
// Message
// =============================================================================

// ChatType values as reported by the Telegram Bot API.
const (
	ChatTypePrivate = "private"
	ChatTypeGroup   = "group"
	ChatTypeChannel = "channel"
)

// Message is a categorized Telegram message as persisted by the sink.
type Message struct {
	ID              int64     `json:"id"`
	TelegramChatID  int64     `json:"telegram_chat_id"`
	TelegramUserID  int64     `json:"telegram_user_id"`
	Username        string    `json:"username,omitempty"`
	ChatType        string    `json:"chat_type"`
	MessageText     string    `json:"message_text"`
	Category        string    `json:"category"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// CategoryCount is a per-category message count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CategoryConfidence is a per-category average confidence score.
type CategoryConfidence struct {
	Category          string  `json:"category"`
	AverageConfidence float64 `json:"average_confidence"`
}

// MessageStats aggregates message counts and confidence averages.
type MessageStats struct {
	Total             int64                `json:"total"`
	ByCategory        []CategoryCount      `json:"by_category"`
	AverageConfidence []CategoryConfidence `json:"average_confidence"`
}

// Distribution returns the per-category counts as a map.
func (s *MessageStats) Distribution() map[string]int64 {
	distribution := make(map[string]int64, len(s.ByCategory))
	for _, c := range s.ByCategory {
		distribution[c.Category] = c.Count
	}
	return distribution
}

// ConfidenceByCategory returns the per-category average confidence
// scores as a map.
func (s *MessageStats) ConfidenceByCategory() map[string]float64 {
	averages := make(map[string]float64, len(s.AverageConfidence))
	for _, c := range s.AverageConfidence {
		averages[c.Category] = c.AverageConfidence
	}
	return averages
}

// MessageRepository defines message persistence and aggregation operations.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	CountAll(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	AverageConfidenceByCategory(ctx context.Context) ([]CategoryConfidence, error)
}
