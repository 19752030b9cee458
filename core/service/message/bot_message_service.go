// Package message implements the message ingestion flow: fetch the
// current category snapshot, run the categorization engine, persist the
// categorized message and aggregate statistics.
package message

import (
	"context"

	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/core/service/categorizer"
	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/logger"
)

// Incoming carries the metadata of a received Telegram message.
type Incoming struct {
	TelegramChatID int64
	TelegramUserID int64
	Username       string
	ChatType       string
	Text           string
}

// Service orchestrates categorization and persistence. The engine stays
// pure; this service is the calling layer that supplies it with a
// consistent category snapshot per call.
type Service struct {
	engine       *categorizer.Engine
	categoryRepo domain.CategoryRepository
	messageRepo  domain.MessageRepository
	log          *logger.Logger
}

// NewService creates the message ingestion service.
func NewService(engine *categorizer.Engine, categoryRepo domain.CategoryRepository, messageRepo domain.MessageRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		engine:       engine,
		categoryRepo: categoryRepo,
		messageRepo:  messageRepo,
		log:          log,
	}
}

// ErrNoCategories signals that ingestion cannot categorize because no
// categories are configured yet.
var ErrNoCategories = apperr.New(apperr.CodeNotFound, "no categories configured", 404)

// Ingest categorizes an incoming message against the current category
// set and persists the result.
func (s *Service) Ingest(ctx context.Context, in Incoming) (*domain.Message, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("list categories", err)
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	result := s.engine.Categorize(in.Text, categories)

	msg := &domain.Message{
		TelegramChatID:  in.TelegramChatID,
		TelegramUserID:  in.TelegramUserID,
		Username:        in.Username,
		ChatType:        in.ChatType,
		MessageText:     in.Text,
		Category:        result.Category,
		ConfidenceScore: result.ConfidenceScore,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, apperr.DatabaseError("store message", err)
	}

	s.log.Info("message stored: user=%d category=%s score=%.2f", in.TelegramUserID, result.Category, result.ConfidenceScore)
	return msg, nil
}

// Categorize runs the engine against the live category set without
// persisting anything. Used by the diagnostic API.
func (s *Service) Categorize(ctx context.Context, text string) (domain.CategorizationResult, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return domain.CategorizationResult{}, apperr.DatabaseError("list categories", err)
	}
	return s.engine.Categorize(text, categories), nil
}

// Rank reports per-category diagnostic scores against the live category
// set. Threshold-independent; never influences ingestion.
func (s *Service) Rank(ctx context.Context, text string) ([]domain.CategoryScore, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("list categories", err)
	}
	return s.engine.Rank(text, categories), nil
}

// Stats aggregates message totals, per-category distribution and
// average confidence per category.
func (s *Service) Stats(ctx context.Context) (*domain.MessageStats, error) {
	total, err := s.messageRepo.CountAll(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("count messages", err)
	}

	stats := &domain.MessageStats{Total: total}
	if total == 0 {
		return stats, nil
	}

	stats.ByCategory, err = s.messageRepo.CountByCategory(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("count messages by category", err)
	}

	stats.AverageConfidence, err = s.messageRepo.AverageConfidenceByCategory(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("average confidence by category", err)
	}

	return stats, nil
}
