package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid
// WebSocket connection attempts from an identified player.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// set by EnsurePlayerID
		if c.Locals("playerID") == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "player ID is required")
		}
		return c.Next()
	}
}
