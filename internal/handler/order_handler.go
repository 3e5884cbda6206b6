package handler

import (
	"strings"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// Checkout turns the posted cart into a PENDING order.
// POST /api/v1/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	result, err := h.service.Checkout(c.UserContext(), &req)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetConfirmation is public, so it only answers to the order UUID returned by checkout.
// GET /api/v1/orders/:id/confirmation
func (h *OrderHandler) GetConfirmation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	}
	confirmation, err := h.service.Confirmation(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(confirmation)
}

// GET /api/v1/admin/orders?status=&page=&limit=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	status := model.OrderStatus(strings.ToUpper(c.Query("status")))
	if status != "" && !status.Valid() {
		return badRequest(c, "Unknown order status")
	}

	orders, err := h.service.List(c.UserContext(), status, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(orders)
}

// GET /api/v1/admin/orders/:id (id or order number)
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(order)
}

// POST /api/v1/admin/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	order, err := h.service.Cancel(c.UserContext(), id, actor(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled", "data": order})
}

type updateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// PUT /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	next := model.OrderStatus(strings.ToUpper(string(req.Status)))
	if !next.Valid() {
		return badRequest(c, "Unknown order status")
	}

	order, err := h.service.UpdateStatus(c.UserContext(), id, next, actor(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}
