package http

import (
	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/core/service/category"
	"github.com/ArthurBash/telegramBot/pkg/apperr"
	"github.com/ArthurBash/telegramBot/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler exposes category management over the admin API.
type CategoryHandler struct {
	service *category.Service
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Register registers category routes.
func (h *CategoryHandler) Register(app fiber.Router) {
	cat := app.Group("/categories")
	cat.Get("/", h.List)
	cat.Post("/", h.Create)
	cat.Delete("/:name", h.Delete)
	cat.Get("/export", h.Export)
}

// CreateCategoryRequest is the POST /categories payload.
type CreateCategoryRequest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// List returns all configured categories.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return response.OKWithMeta(c, cats, &response.Meta{Total: len(cats)})
}

// Create adds a category.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	cat, err := h.service.Create(c.Context(), req.Name, req.Keywords)
	if err != nil {
		return err
	}
	return response.Created(c, cat)
}

// Delete removes a category by name.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return apperr.MissingField("name")
	}

	if err := h.service.Delete(c.Context(), name); err != nil {
		return err
	}
	return response.NoContent(c)
}

// Export streams all categories as a CSV attachment.
func (h *CategoryHandler) Export(c *fiber.Ctx) error {
	content, err := h.service.ExportCSV(c.Context())
	if err != nil {
		return err
	}
	if content == nil {
		return apperr.NotFound("categories")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="categories.csv"`)
	return c.Send(content)
}
