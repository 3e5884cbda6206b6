package handler

import (
	"go-wigstore-api/internal/query"
	"go-wigstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts is the storefront listing; inactive products are never shown.
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	q, err := query.Parse(c.Queries())
	if err != nil {
		return respond(c, err)
	}
	active := true
	q.IsActive = &active
	return h.list(c, q)
}

// GetAdminProducts lists every product, honouring is_active and status.
// GET /api/v1/admin/products
func (h *ProductHandler) GetAdminProducts(c *fiber.Ctx) error {
	q, err := query.Parse(c.Queries())
	if err != nil {
		return respond(c, err)
	}
	return h.list(c, q)
}

func (h *ProductHandler) list(c *fiber.Ctx, q query.ProductQuery) error {
	result, err := h.service.ListProducts(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(result)
}

// GET /api/v1/products/:idOrSlug
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("idOrSlug"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, actor(c))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// PUT /api/v1/products/:id or /api/v1/products?id=
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(product)
}

// DELETE /api/v1/products/:id or /api/v1/products?id=
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/v1/products/filters
func (h *ProductHandler) GetFacets(c *fiber.Ctx) error {
	facets, err := h.service.Facets(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(facets)
}

// GET /api/v1/categories
func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.Categories())
}
