package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

// EnsurePlayerID stores the caller's player id in Locals("playerID"), read
// from the X-Player-ID header or the playerId query parameter. The id outlives
// the request in games and the matchmaking queue, so it is copied out of the
// request buffer.
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
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}
		playerID = utils.CopyString(playerID)
		log.Debugf("request %s %s from player %s", c.Method(), c.Path(), playerID)

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
