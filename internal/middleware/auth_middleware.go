package middleware

import (
	"errors"
	"strings"

	"go-wigstore-api/internal/service"
	"go-wigstore-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID         = "user_id"
	LocalUserEmail      = "user_email"
	LocalUserName       = "user_name"
	LocalUserPrivileges = "user_privileges"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := authService.Authenticate(c.UserContext(), parts[1])
		switch {
		case errors.Is(err, service.ErrSessionReplaced), errors.Is(err, service.ErrUserInactive):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, jwt.ErrInvalidToken):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		case err != nil:
			return err
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalUserPrivileges, claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalUserPrivileges).([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}
