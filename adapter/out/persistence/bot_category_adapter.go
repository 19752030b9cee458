// Package persistence provides database adapters implementing the
// domain repository interfaces.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ArthurBash/telegramBot/core/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// =============================================================================
// Category Adapter
// =============================================================================

// CategoryAdapter implements domain.CategoryRepository on Postgres.
type CategoryAdapter struct {
	db *sqlx.DB
}

// NewCategoryAdapter creates a new CategoryAdapter.
func NewCategoryAdapter(db *sqlx.DB) *CategoryAdapter {
	return &CategoryAdapter{db: db}
}

// categoryRow represents the database row.
type categoryRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Keywords  pq.StringArray `db:"keywords"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *categoryRow) toEntity() *domain.Category {
	return &domain.Category{
		ID:        r.ID,
		Name:      r.Name,
		Keywords:  []string(r.Keywords),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// GetByName retrieves a category by its unique name.
func (a *CategoryAdapter) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var row categoryRow
	query := `SELECT id, name, keywords, created_at, updated_at FROM categories WHERE name = $1`

	if err := a.db.GetContext(ctx, &row, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return row.toEntity(), nil
}

// List retrieves all categories in insertion order.
func (a *CategoryAdapter) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	query := `SELECT id, name, keywords, created_at, updated_at FROM categories ORDER BY id`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]domain.Category, len(rows))
	for i, row := range rows {
		categories[i] = *row.toEntity()
	}

	return categories, nil
}

// Create inserts a new category.
func (a *CategoryAdapter) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, keywords)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := a.db.QueryRowContext(ctx, query,
		category.Name, pq.StringArray(category.Keywords),
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// Delete removes a category by name.
func (a *CategoryAdapter) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM categories WHERE name = $1`

	result, err := a.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("category not found: %s", name)
	}

	return nil
}

// Count returns the number of configured categories.
func (a *CategoryAdapter) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM categories`

	if err := a.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return count, nil
}
