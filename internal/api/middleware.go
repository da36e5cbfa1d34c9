package api

import (
	"strings"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/auth"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "user"

// Auth validates the Bearer token and loads the acting user into the request
// context. A token whose subject no longer exists is rejected: deleted users
// lose access immediately even with a live token.
func Auth(tokens *auth.Tokens, s store.PoolStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		user, err := s.GetUserById(c.UserContext(), claims.Subject)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unknown user",
			})
		}

		c.Locals(localsUserKey, user)
		return c.Next()
	}
}

// RequireRole allows only the listed roles past this point. Must run after
// Auth. The role gate in internal/pool re-checks ownership on every
// mutation; this filter just keeps obviously wrong roles off the routes.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := actingUser(c)
		if user == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
}

func actingUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}
