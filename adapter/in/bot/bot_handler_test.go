package bot

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ArthurBash/telegramBot/adapter/out/telegram"
	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/core/service/categorizer"
	"github.com/ArthurBash/telegramBot/core/service/category"
	"github.com/ArthurBash/telegramBot/core/service/message"
	"github.com/ArthurBash/telegramBot/pkg/logger"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeCategoryRepo struct {
	categories []domain.Category
	nextID     int64
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for i := range r.categories {
		if r.categories[i].Name == name {
			cat := r.categories[i]
			return &cat, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), r.categories...), nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, cat *domain.Category) error {
	r.nextID++
	cat.ID = r.nextID
	r.categories = append(r.categories, *cat)
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, name string) error {
	for i := range r.categories {
		if r.categories[i].Name == name {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

type fakeMessageRepo struct {
	messages []domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.messages)), nil
}

func (r *fakeMessageRepo) CountByCategory(_ context.Context) ([]domain.CategoryCount, error) {
	counts := make(map[string]int64)
	for _, m := range r.messages {
		counts[m.Category]++
	}
	result := make([]domain.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		result = append(result, domain.CategoryCount{Category: cat, Count: n})
	}
	return result, nil
}

func (r *fakeMessageRepo) AverageConfidenceByCategory(_ context.Context) ([]domain.CategoryConfidence, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int64)
	for _, m := range r.messages {
		sums[m.Category] += m.ConfidenceScore
		counts[m.Category]++
	}
	result := make([]domain.CategoryConfidence, 0, len(sums))
	for cat, sum := range sums {
		result = append(result, domain.CategoryConfidence{Category: cat, AverageConfidence: sum / float64(counts[cat])})
	}
	return result, nil
}

type fakeSender struct {
	sentTexts []string
	documents []string
}

func (s *fakeSender) SendMessage(_ context.Context, _ int64, text string) error {
	s.sentTexts = append(s.sentTexts, text)
	return nil
}

func (s *fakeSender) SendDocument(_ context.Context, _ int64, filename string, _ []byte, _ string) error {
	s.documents = append(s.documents, filename)
	return nil
}

func (s *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	if len(s.sentTexts) == 0 {
		t.Fatal("no message sent")
	}
	return s.sentTexts[len(s.sentTexts)-1]
}

// =============================================================================
// Setup
// =============================================================================

func newTestHandler(t *testing.T, catRepo *fakeCategoryRepo, msgRepo *fakeMessageRepo) (*Handler, *fakeSender) {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.LevelError, Output: io.Discard})
	engine, err := categorizer.New(categorizer.DefaultConfig(), log)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}

	sender := &fakeSender{}
	handler := NewHandler(sender,
		category.NewService(catRepo, "sin_categoria", log),
		message.NewService(engine, catRepo, msgRepo, log),
		log)
	return handler, sender
}

func textUpdate(text string) telegram.Update {
	return telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			MessageID: 10,
			From:      &telegram.User{ID: 42, Username: "alice"},
			Chat:      telegram.Chat{ID: 100, Type: "private"},
			Text:      text,
		},
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestHandleMessageCategorizesAndReplies(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion", "oficina"}},
	}}
	msgRepo := &fakeMessageRepo{}
	handler, sender := newTestHandler(t, catRepo, msgRepo)

	handler.HandleUpdate(context.Background(), textUpdate("mañana reunion en la oficina"))

	if len(msgRepo.messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(msgRepo.messages))
	}
	if got := msgRepo.messages[0].Category; got != "trabajo" {
		t.Errorf("stored category = %q, want trabajo", got)
	}
	reply := sender.lastText(t)
	if !strings.Contains(reply, "trabajo") || !strings.Contains(reply, "100.0%") {
		t.Errorf("reply = %q, want category and confidence", reply)
	}
}

func TestHandleMessageWithoutCategories(t *testing.T) {
	handler, sender := newTestHandler(t, &fakeCategoryRepo{}, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("hola"))

	if !strings.Contains(sender.lastText(t), "/add_category") {
		t.Errorf("reply = %q, want hint to create a category", sender.lastText(t))
	}
}

func TestHandleUpdateIgnoresBotsAndEmpty(t *testing.T) {
	msgRepo := &fakeMessageRepo{}
	handler, sender := newTestHandler(t, &fakeCategoryRepo{}, msgRepo)

	botUpdate := textUpdate("spam")
	botUpdate.Message.From.IsBot = true
	handler.HandleUpdate(context.Background(), botUpdate)
	handler.HandleUpdate(context.Background(), telegram.Update{UpdateID: 2})

	if len(sender.sentTexts) != 0 || len(msgRepo.messages) != 0 {
		t.Errorf("bot or empty updates were processed: %d replies, %d messages", len(sender.sentTexts), len(msgRepo.messages))
	}
}

func TestAddCategoryCommand(t *testing.T) {
	catRepo := &fakeCategoryRepo{}
	handler, sender := newTestHandler(t, catRepo, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/add_category Trabajo reunion, oficina, jefe"))

	if len(catRepo.categories) != 1 {
		t.Fatalf("created %d categories, want 1", len(catRepo.categories))
	}
	cat := catRepo.categories[0]
	if cat.Name != "trabajo" {
		t.Errorf("category name = %q, want lowercased trabajo", cat.Name)
	}
	if len(cat.Keywords) != 3 {
		t.Errorf("keywords = %v, want 3 entries", cat.Keywords)
	}
	if !strings.Contains(sender.lastText(t), "trabajo") {
		t.Errorf("reply = %q, want category info", sender.lastText(t))
	}
}

func TestAddCategoryCommandUsage(t *testing.T) {
	handler, sender := newTestHandler(t, &fakeCategoryRepo{}, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/add_category solo_nombre"))

	if !strings.Contains(sender.lastText(t), "Uso:") {
		t.Errorf("reply = %q, want usage text", sender.lastText(t))
	}
}

func TestAddCategoryDuplicate(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion"}},
	}}
	handler, sender := newTestHandler(t, catRepo, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/ac trabajo oficina"))

	if len(catRepo.categories) != 1 {
		t.Fatalf("duplicate created: %d categories", len(catRepo.categories))
	}
	if !strings.HasPrefix(sender.lastText(t), "⚠️") {
		t.Errorf("reply = %q, want error reply", sender.lastText(t))
	}
}

func TestListCategoriesCommand(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion", "oficina"}},
		{ID: 2, Name: "personal", Keywords: []string{"familia"}},
	}}
	handler, sender := newTestHandler(t, catRepo, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/lc"))

	reply := sender.lastText(t)
	if !strings.Contains(reply, "trabajo") || !strings.Contains(reply, "personal") {
		t.Errorf("reply = %q, want both categories listed", reply)
	}
}

func TestListCategoriesEmpty(t *testing.T) {
	handler, sender := newTestHandler(t, &fakeCategoryRepo{}, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/list_categories"))

	if !strings.Contains(sender.lastText(t), "No hay categorías") {
		t.Errorf("reply = %q, want empty notice", sender.lastText(t))
	}
}

func TestDeleteCategoryCommand(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion"}},
	}}
	handler, sender := newTestHandler(t, catRepo, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/delete_category trabajo"))

	if len(catRepo.categories) != 0 {
		t.Errorf("category not deleted: %v", catRepo.categories)
	}
	if !strings.Contains(sender.lastText(t), "trabajo") {
		t.Errorf("reply = %q, want deletion confirmation", sender.lastText(t))
	}
}

func TestDeleteDefaultCategoryRejected(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "sin_categoria", Keywords: []string{"x"}},
	}}
	handler, sender := newTestHandler(t, catRepo, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/dc sin_categoria"))

	if len(catRepo.categories) != 1 {
		t.Errorf("default category was deleted")
	}
	if !strings.HasPrefix(sender.lastText(t), "⚠️") {
		t.Errorf("reply = %q, want error reply", sender.lastText(t))
	}
}

func TestStatsCommand(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion"}},
	}}
	msgRepo := &fakeMessageRepo{}
	handler, sender := newTestHandler(t, catRepo, msgRepo)

	handler.HandleUpdate(context.Background(), textUpdate("reunion hoy"))
	handler.HandleUpdate(context.Background(), textUpdate("/stats"))

	reply := sender.lastText(t)
	if !strings.Contains(reply, "Total de mensajes: 1") {
		t.Errorf("reply = %q, want total count", reply)
	}
	if !strings.Contains(reply, "trabajo: 1 (100.0%)") {
		t.Errorf("reply = %q, want per-category line", reply)
	}
	if !strings.Contains(reply, "Confianza promedio") {
		t.Errorf("reply = %q, want average confidence section", reply)
	}
	if !strings.Contains(reply, "trabajo: 100.0%") {
		t.Errorf("reply = %q, want per-category average line", reply)
	}
}

func TestExportCategoriesCommand(t *testing.T) {
	catRepo := &fakeCategoryRepo{categories: []domain.Category{
		{ID: 1, Name: "trabajo", Keywords: []string{"reunion", "oficina"}},
	}}
	handler, sender := newTestHandler(t, catRepo, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/export_categories"))

	if len(sender.documents) != 1 || sender.documents[0] != "categories.csv" {
		t.Errorf("documents = %v, want [categories.csv]", sender.documents)
	}
}

func TestCommandWithBotMention(t *testing.T) {
	handler, sender := newTestHandler(t, &fakeCategoryRepo{}, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/help@categorizer_bot"))

	if !strings.Contains(sender.lastText(t), "/add_category") {
		t.Errorf("reply = %q, want help text", sender.lastText(t))
	}
}

func TestUnknownCommand(t *testing.T) {
	handler, sender := newTestHandler(t, &fakeCategoryRepo{}, &fakeMessageRepo{})

	handler.HandleUpdate(context.Background(), textUpdate("/nope"))

	if !strings.Contains(sender.lastText(t), "/help") {
		t.Errorf("reply = %q, want unknown-command hint", sender.lastText(t))
	}
}
