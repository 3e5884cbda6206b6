package handler

import (
	"go-wigstore-api/internal/middleware"
	"go-wigstore-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	response, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respond(c, err)
	}

	return c.JSON(response)
}

// Logout invalidates the caller's token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals(middleware.LocalUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.authService.Logout(c.UserContext(), id); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me echoes the identity and privileges carried by the token.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	privileges, _ := c.Locals(middleware.LocalUserPrivileges).([]string)
	a := actor(c)
	return c.JSON(fiber.Map{
		"id":         a.ID,
		"email":      a.Email,
		"name":       a.Name,
		"privileges": privileges,
	})
}
