package category

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/logger"
)

type memoryRepo struct {
	categories []domain.Category
	nextID     int64
}

func (r *memoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for i := range r.categories {
		if r.categories[i].Name == name {
			cat := r.categories[i]
			return &cat, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), r.categories...), nil
}

func (r *memoryRepo) Create(_ context.Context, cat *domain.Category) error {
	r.nextID++
	cat.ID = r.nextID
	r.categories = append(r.categories, *cat)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, name string) error {
	for i := range r.categories {
		if r.categories[i].Name == name {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

func newTestService(repo *memoryRepo) *Service {
	log := logger.New(logger.Config{Level: logger.LevelError, Output: io.Discard})
	return NewService(repo, "sin_categoria", log)
}

func TestCreateNormalizesName(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)

	cat, err := svc.Create(context.Background(), "  Trabajo  ", []string{"reunion", "oficina"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if cat.Name != "trabajo" {
		t.Errorf("name = %q, want lowercased trimmed trabajo", cat.Name)
	}
	if cat.ID == 0 {
		t.Error("ID not assigned")
	}
}

func TestCreateRejectsInvalidName(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	tests := []string{"", "con espacios", "acentúado", strings.Repeat("x", 101)}
	for _, name := range tests {
		_, err := svc.Create(context.Background(), name, []string{"kw"})
		if err == nil {
			t.Errorf("Create(%q) succeeded, want validation error", name)
		}
	}
}

func TestCreateRequiresKeywords(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	if _, err := svc.Create(context.Background(), "trabajo", nil); !apperr.Is(err, apperr.CodeMissingField) {
		t.Errorf("Create() error = %v, want missing field", err)
	}
	if _, err := svc.Create(context.Background(), "trabajo", []string{"  "}); !apperr.Is(err, apperr.CodeInvalidInput) {
		t.Errorf("Create() error = %v, want invalid input", err)
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	repo := &memoryRepo{categories: []domain.Category{{ID: 1, Name: "trabajo", Keywords: []string{"reunion"}}}}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "TRABAJO", []string{"oficina"})
	if !apperr.Is(err, apperr.CodeAlreadyExists) {
		t.Errorf("Create() error = %v, want already exists", err)
	}
}

func TestDeleteProtectsDefaultCategory(t *testing.T) {
	repo := &memoryRepo{categories: []domain.Category{{ID: 1, Name: "sin_categoria", Keywords: []string{"x"}}}}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), "sin_categoria")
	if !apperr.Is(err, apperr.CodeForbidden) {
		t.Errorf("Delete(default) error = %v, want forbidden", err)
	}
	if len(repo.categories) != 1 {
		t.Error("default category was deleted")
	}
}

func TestDeleteUnknownCategory(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	if err := svc.Delete(context.Background(), "nada"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("Delete() error = %v, want not found", err)
	}
}

func TestExportCSV(t *testing.T) {
	repo := &memoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion", "oficina"}},
		{ID: 2, Name: "personal", Keywords: []string{"familia"}},
	}}
	svc := newTestService(repo)

	content, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want header + 2 rows: %q", len(lines), content)
	}
	if lines[0] != "name,keywords" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "trabajo") || !strings.Contains(lines[1], "reunion, oficina") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	content, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}
	if content != nil {
		t.Errorf("content = %q, want nil for empty set", content)
	}
}
