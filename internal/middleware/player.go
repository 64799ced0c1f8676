package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// EnsurePlayerID reads the caller's id from the X-Player-ID header or the
// playerId query parameter and stores a copy in Locals("playerID").
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Player ID is required. Please ensure client is properly initialized.")
		}
		if len(playerID) > 64 {
			return fiber.NewError(fiber.StatusBadRequest, "Player ID is too long")
		}

		// the header and query values alias fasthttp's request buffer, which
		// is reused once the handler returns
		c.Locals("playerID", utils.CopyString(playerID))
		return c.Next()
	}
}
