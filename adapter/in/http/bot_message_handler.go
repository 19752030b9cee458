package http

import (
	"github.com/ArthurBash/telegramBot/core/service/message"
	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler exposes categorization diagnostics and statistics.
type MessageHandler struct {
	service *message.Service
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service *message.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

// Register registers message routes.
func (h *MessageHandler) Register(app fiber.Router) {
	app.Post("/categorize", h.Categorize)
	app.Post("/categorize/rank", h.Rank)
	app.Get("/stats", h.Stats)
}

// CategorizeRequest is the POST /categorize and /rank payload.
type CategorizeRequest struct {
	Text string `json:"text"`
}

// Categorize runs the engine against a text without persisting it.
func (h *MessageHandler) Categorize(c *fiber.Ctx) error {
	var req CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	result, err := h.service.Categorize(c.Context(), req.Text)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}

// Rank returns per-category diagnostic scores for a text.
func (h *MessageHandler) Rank(c *fiber.Ctx) error {
	var req CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	scores, err := h.service.Rank(c.Context(), req.Text)
	if err != nil {
		return err
	}
	return response.OKWithMeta(c, scores, &response.Meta{Total: len(scores)})
}

// Stats returns message totals and per-category aggregates.
func (h *MessageHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, stats)
}
