package handlers

import (
	"errors"

	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/core/services"
	"loanflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles loan product endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List lists active loan products
// @Summary List loan products
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.productService.ListProducts(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}
	return response.Success(c, "Products retrieved", fiber.Map{"products": products})
}

// Get gets one loan product
// @Summary Get loan product
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil || productID < 1 {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.GetProduct(c.Context(), uint(productID))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to get product")
	}
	return response.Success(c, "Product retrieved", fiber.Map{"product": product})
}

// Create creates a loan product
// @Summary Create loan product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Code == "" || input.Name == "" {
		return response.BadRequest(c, "Code and name are required")
	}

	product, err := h.productService.CreateProduct(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Product code already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid product limits")
		default:
			return response.InternalServerError(c, "Failed to create product")
		}
	}
	return response.Created(c, "Product created", fiber.Map{"product": product})
}

// Update updates a loan product
// @Summary Update loan product
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body services.UpdateProductInput true "Product data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil || productID < 1 {
		return response.BadRequest(c, "Invalid product ID")
	}

	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.UpdateProduct(c.Context(), uint(productID), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid product limits")
		default:
			return response.InternalServerError(c, "Failed to update product")
		}
	}
	return response.Success(c, "Product updated", fiber.Map{"product": product})
}
