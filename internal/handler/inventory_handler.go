package handler

import (
	"go-wigstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateAdjustment records a restock or a manual stock removal.
// POST /api/v1/admin/inventory/adjustments
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var req service.AdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Adjust(c.UserContext(), &req, actor(c))
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock adjusted", "data": result})
}

// GetMovements returns the stock ledger, newest first.
// GET /api/v1/admin/inventory/movements?product_id=&limit=
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid product ID")
		}
		productID = &id
	}

	movements, err := h.service.Movements(c.UserContext(), productID, c.QueryInt("limit", 100))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(movements)
}
