package handlers

import (
	"katalog/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationHandler exposes the product validators without touching storage.
type ValidationHandler struct {
	validate *validator.Validate
}

// NewValidationHandler creates a new ValidationHandler.
func NewValidationHandler() *ValidationHandler {
	return &ValidationHandler{validate: validator.New()}
}

// RegisterRoutes registers the validation routes on router.
func (h *ValidationHandler) RegisterRoutes(router fiber.Router) {
	validateRoutes := router.Group("/validate")
	validateRoutes.Post("/product", h.HandleValidateProduct)
	validateRoutes.Post("/increase", h.HandleValidateIncrease)
	validateRoutes.Post("/decrease", h.HandleValidateDecrease)
}

// StockCheckRequest is the body of the increase/decrease checks.
type StockCheckRequest struct {
	CurrentStock *int `json:"current_stock" validate:"required"`
	Amount       *int `json:"amount" validate:"required"`
}

// HandleValidateProduct classifies every field of the posted product.
func (h *ValidationHandler) HandleValidateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	product := models.NewProduct(req.ID, req.Name, req.Price, req.Stock)
	return c.JSON(fiber.Map{
		"valid":   product.Valid(),
		"results": product.Validate(),
	})
}

// HandleValidateIncrease classifies a stock increase.
func (h *ValidationHandler) HandleValidateIncrease(c *fiber.Ctx) error {
	return h.check(c, models.ValidateIncrease)
}

// HandleValidateDecrease classifies a stock decrease.
func (h *ValidationHandler) HandleValidateDecrease(c *fiber.Ctx) error {
	return h.check(c, models.ValidateDecrease)
}

func (h *ValidationHandler) check(c *fiber.Ctx, classify func(current, amount int) models.Outcome) error {
	var req StockCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	outcome := classify(*req.CurrentStock, *req.Amount)
	return c.JSON(fiber.Map{
		"valid":  outcome.Valid(),
		"result": models.FieldResult{Field: models.FieldAmount, Outcome: outcome},
	})
}
