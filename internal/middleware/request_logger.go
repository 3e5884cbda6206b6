package middleware

import (
	"go-wigstore-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger stores a logger tagged with the request id in the user
// context so services log with it through logger.WithCtx. It must run
// after requestid.New().
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		l := logger.L.With("request_id", rid)
		c.SetUserContext(logger.Inject(c.UserContext(), l))
		return c.Next()
	}
}
