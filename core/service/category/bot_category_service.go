// Package category implements category lifecycle management: the
// administrative commands behind /add_category, /list_categories,
// /delete_category and CSV export.
package category

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/format"
	"github.com/ArthurBash/telegramBot/pkg/logger"
)

// Service manages category definitions. The categorization engine never
// touches this service; it only ever receives category snapshots.
type Service struct {
	repo            domain.CategoryRepository
	defaultCategory string
	log             *logger.Logger
}

// NewService creates a category management service.
func NewService(repo domain.CategoryRepository, defaultCategory string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		repo:            repo,
		defaultCategory: defaultCategory,
		log:             log,
	}
}

// Create validates and stores a new category. Names are lowercased so
// lookups stay case-insensitive; at least one keyword is required.
func (s *Service) Create(ctx context.Context, name string, keywords []string) (*domain.Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if err := domain.ValidateCategoryName(name); err != nil {
		return nil, apperr.InvalidInput("name", err.Error())
	}
	if len(keywords) == 0 {
		return nil, apperr.MissingField("keywords")
	}
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return nil, apperr.InvalidInput("keywords", "keywords must not be empty")
		}
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, apperr.DatabaseError("lookup category", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists(fmt.Sprintf("category '%s'", name))
	}

	cat := &domain.Category{Name: name, Keywords: keywords}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, apperr.DatabaseError("create category", err)
	}

	s.log.Info("category created: %s (%d keywords)", name, len(keywords))
	return cat, nil
}

// List returns all configured categories.
func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("list categories", err)
	}
	return cats, nil
}

// Delete removes a category by name. The configured default category is
// protected: unmatched messages must always have somewhere to land.
func (s *Service) Delete(ctx context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))

	if name == s.defaultCategory {
		return apperr.Forbidden(fmt.Sprintf("cannot delete the default category '%s'", s.defaultCategory))
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return apperr.DatabaseError("lookup category", err)
	}
	if existing == nil {
		return apperr.NotFound(fmt.Sprintf("category '%s'", name))
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return apperr.DatabaseError("delete category", err)
	}

	s.log.Info("category deleted: %s", name)
	return nil
}

// ExportCSV renders all categories as a CSV document with a name and
// keywords column. Returns nil content when no categories exist.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("list categories", err)
	}
	if len(cats) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "keywords"}); err != nil {
		return nil, apperr.Internal("write csv header", err)
	}
	for _, cat := range cats {
		if err := w.Write([]string{cat.Name, format.KeywordsToString(cat.Keywords)}); err != nil {
			return nil, apperr.Internal("write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.Internal("flush csv", err)
	}

	s.log.Info("exported %d categories to CSV", len(cats))
	return buf.Bytes(), nil
}
