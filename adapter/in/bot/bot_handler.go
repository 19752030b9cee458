// Package bot implements the inbound Telegram adapter: a long-polling
// update loop and the command handlers behind it.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArthurBash/telegramBot/adapter/out/telegram"
	"github.com/ArthurBash/telegramBot/core/service/category"
	"github.com/ArthurBash/telegramBot/core/service/message"
	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/format"
	"github.com/ArthurBash/telegramBot/pkg/logger"
)

// Sender is the outbound surface the handler needs from the Telegram
// client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error
}

// Handler routes incoming updates to the category and message services.
type Handler struct {
	sender     Sender
	categories *category.Service
	messages   *message.Service
	log        *logger.Logger
}

// NewHandler creates the update handler.
func NewHandler(sender Sender, categories *category.Service, messages *message.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		sender:     sender,
		categories: categories,
		messages:   messages,
		log:        log,
	}
}

const helpText = `🤖 *Bot de categorización de mensajes*

Envíame cualquier mensaje y lo clasificaré en una categoría.

Comandos:
/add_category <nombre> <kw1, kw2, ...> — crear categoría (/ac)
/list_categories — listar categorías (/lc)
/delete_category <nombre> — eliminar categoría (/dc)
/stats — estadísticas de mensajes (/s)
/export_categories — exportar categorías como CSV
/help — esta ayuda`

// HandleUpdate processes one update. Errors are reported to the chat
// and logged; they never stop the polling loop.
func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}

	var err error
	if strings.HasPrefix(msg.Text, "/") {
		err = h.handleCommand(ctx, msg)
	} else {
		err = h.handleMessage(ctx, msg)
	}

	if err != nil {
		h.log.WithError(err).Error("failed to handle update %d", update.UpdateID)
		h.reply(ctx, msg.Chat.ID, "⚠️ "+userMessage(err))
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *telegram.Message) error {
	fields := strings.Fields(msg.Text)
	command := fields[0]
	// Commands in groups arrive as /cmd@botname.
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}
	args := fields[1:]

	switch command {
	case "/start", "/help":
		return h.reply(ctx, msg.Chat.ID, helpText)
	case "/add_category", "/ac":
		return h.handleAddCategory(ctx, msg.Chat.ID, args)
	case "/list_categories", "/lc":
		return h.handleListCategories(ctx, msg.Chat.ID)
	case "/delete_category", "/dc":
		return h.handleDeleteCategory(ctx, msg.Chat.ID, args)
	case "/stats", "/s":
		return h.handleStats(ctx, msg.Chat.ID)
	case "/export_categories":
		return h.handleExportCategories(ctx, msg.Chat.ID)
	default:
		return h.reply(ctx, msg.Chat.ID, "❓ Comando desconocido. Usa /help para ver los comandos disponibles.")
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *telegram.Message) error {
	in := message.Incoming{
		TelegramChatID: msg.Chat.ID,
		ChatType:       msg.Chat.Type,
		Text:           msg.Text,
	}
	if msg.From != nil {
		in.TelegramUserID = msg.From.ID
		in.Username = msg.From.Username
	}

	h.log.Debug("incoming message from chat %d: %s", msg.Chat.ID, format.Truncate(msg.Text, 64))

	stored, err := h.messages.Ingest(ctx, in)
	if err != nil {
		if errors.Is(err, message.ErrNoCategories) {
			return h.reply(ctx, msg.Chat.ID, "📭 No hay categorías configuradas. Crea una con /add_category.")
		}
		return err
	}

	return h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Categorizado como: *%s*\n🎯 Confianza: %s",
		stored.Category, format.Confidence(stored.ConfidenceScore)))
}

func (h *Handler) handleAddCategory(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return h.reply(ctx, chatID, "Uso: /add_category <nombre> <palabra1, palabra2, ...>")
	}

	name := args[0]
	keywords := format.ParseKeywords(strings.Join(args[1:], " "))

	cat, err := h.categories.Create(ctx, name, keywords)
	if err != nil {
		return err
	}

	return h.reply(ctx, chatID, "✅ Categoría creada:\n"+format.CategoryInfo(cat.Name, cat.Keywords))
}

func (h *Handler) handleListCategories(ctx context.Context, chatID int64) error {
	cats, err := h.categories.List(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return h.reply(ctx, chatID, "📭 No hay categorías configuradas.")
	}

	lines := make([]string, 0, len(cats)+1)
	lines = append(lines, fmt.Sprintf("📋 Categorías (%d):\n", len(cats)))
	for _, cat := range cats {
		lines = append(lines, format.CategoryInfo(cat.Name, cat.Keywords))
	}
	return h.reply(ctx, chatID, strings.Join(lines, "\n\n"))
}

func (h *Handler) handleDeleteCategory(ctx context.Context, chatID int64, args []string) error {
	if len(args) != 1 {
		return h.reply(ctx, chatID, "Uso: /delete_category <nombre>")
	}

	if err := h.categories.Delete(ctx, args[0]); err != nil {
		return err
	}
	return h.reply(ctx, chatID, fmt.Sprintf("🗑 Categoría eliminada: %s", strings.ToLower(strings.TrimSpace(args[0]))))
}

func (h *Handler) handleStats(ctx context.Context, chatID int64) error {
	stats, err := h.messages.Stats(ctx)
	if err != nil {
		return err
	}
	return h.reply(ctx, chatID, format.MessageStats(stats.Total, stats.Distribution(), stats.ConfidenceByCategory()))
}

func (h *Handler) handleExportCategories(ctx context.Context, chatID int64) error {
	content, err := h.categories.ExportCSV(ctx)
	if err != nil {
		return err
	}
	if content == nil {
		return h.reply(ctx, chatID, "📭 No hay categorías para exportar.")
	}
	return h.sender.SendDocument(ctx, chatID, "categories.csv", content, "📁 Categorías exportadas")
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) error {
	return h.sender.SendMessage(ctx, chatID, text)
}

// userMessage extracts a chat-safe description from an error.
func userMessage(err error) string {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Ocurrió un error procesando tu mensaje."
}
