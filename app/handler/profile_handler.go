package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// GET /api/v1/me
func Profile(c *fiber.Ctx) error {
	a := actor(c)
	return c.JSON(model.ProfileResponse{
		Success: true,
		Data: model.ProfileData{
			UserID: a.ID.String(),
			Role:   string(a.Role),
		},
	})
}
