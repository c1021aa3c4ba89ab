package handlers

import (
	"errors"
	"fmt"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes on router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/stock/increase", h.HandleIncreaseStock)
	productRoutes.Post("/:id/stock/decrease", h.HandleDecreaseStock)
}

// ProductRequest is the body of product create and update requests. The
// ID of an update comes from the path.
type ProductRequest struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// StockAdjustmentRequest is the body of stock increase/decrease requests.
// Zero and negative amounts are left to the domain validators.
type StockAdjustmentRequest struct {
	Amount *int `json:"amount" validate:"required"`
}

// HandleGetProducts lists all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return h.fail(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c, err)
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return h.fail(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct validates and stores a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	product := models.NewProduct(req.ID, req.Name, req.Price, req.Stock)
	if err := h.service.CreateProduct(product); err != nil {
		return h.fail(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct validates and replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c, err)
	}
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	product := models.NewProduct(id, req.Name, req.Price, req.Stock)
	if err := h.service.UpdateProduct(product); err != nil {
		return h.fail(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c, err)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return h.fail(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %d deleted successfully", id),
	})
}

// HandleIncreaseStock adds to a product's stock after validation.
func (h *ProductHandler) HandleIncreaseStock(c *fiber.Ctx) error {
	return h.adjustStock(c, h.service.IncreaseStock)
}

// HandleDecreaseStock subtracts from a product's stock after validation.
func (h *ProductHandler) HandleDecreaseStock(c *fiber.Ctx) error {
	return h.adjustStock(c, h.service.DecreaseStock)
}

func (h *ProductHandler) adjustStock(c *fiber.Ctx, adjust func(id, amount int) (*models.Product, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c, err)
	}
	var req StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	product, err := adjust(id, *req.Amount)
	if err != nil {
		return h.fail(c, "Could not adjust stock", err)
	}
	return c.JSON(product)
}

// fail maps service errors to status codes.
func (h *ProductHandler) fail(c *fiber.Ctx, message string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"results": verr.Results,
		})
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrProductExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Product already exists",
			"error":   err.Error(),
		})
	}
	h.logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badID(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Product ID must be an integer",
		"error":   err.Error(),
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed reports request-shape errors from go-playground/validator.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badBody(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
