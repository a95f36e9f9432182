package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/helper"
)

const actorKey = "actor"

// AuthRequired validates the bearer token issued by the auth provider and
// stores the caller as a model.Actor in the request locals.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if bearer == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "missing token",
			})
		}

		if len(bearer) < 7 || !strings.EqualFold(bearer[:7], "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "authorization header must use the Bearer scheme",
			})
		}
		token := strings.TrimSpace(bearer[7:])

		actor, err := helper.ValidateToken(token, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "invalid token",
			})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// RoleRequired rejects callers whose role is not one of roles. It must run
// after AuthRequired.
func RoleRequired(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(model.ErrorResponse{
				Success: false,
				Message: "missing caller identity",
			})
		}

		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(model.ErrorResponse{
			Success: false,
			Message: "access denied",
		})
	}
}

// ActorFrom returns the caller stored by AuthRequired.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(actorKey).(model.Actor)
	return actor, ok
}
