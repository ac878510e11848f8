package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
	"docvault/internal/model"
	"docvault/internal/policy"
)

// ActorLocalKey is the key used to store the authenticated actor in Fiber's
// context locals.
const ActorLocalKey = "actor"

const bearerPrefix = "Bearer "

// Auth validates the bearer token on the request and stores the resulting
// actor in context locals. Requests without a valid token get 401; the body
// never reveals whether the token was absent, malformed or expired.
func Auth(secretKey []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, bearerPrefix), secretKey)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		c.Locals(ActorLocalKey, policy.Actor{ID: claims.Subject, Role: claims.Role})

		return c.Next()
	}
}

// RequireRole guards a route group to the given roles. It must run after Auth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(ActorLocalKey).(policy.Actor)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden)
	}
}
