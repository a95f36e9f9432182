package handler

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/service"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/middleware"
)

// statusFor maps the service error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func failWith(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	resp := model.ErrorResponse{
		Success: false,
		Message: action,
		Error:   err.Error(),
	}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	// Store internals are not for clients.
	switch status {
	case fiber.StatusServiceUnavailable:
		resp.Error = service.ErrStoreUnavailable.Error()
	case fiber.StatusInternalServerError:
		resp.Error = "internal error"
	}
	return c.Status(status).JSON(resp)
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	resp := model.ErrorResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func actor(c *fiber.Ctx) model.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func statusQuery(c *fiber.Ctx) (*model.ReviewStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	st, ok := model.ParseReviewStatus(raw)
	if !ok {
		return nil, false
	}
	return &st, true
}

func paginated[T any](c *fiber.Ctx, items []T, total int64, page, limit int, status *model.ReviewStatus) error {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	meta := model.MetaInfo{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
	if status != nil {
		meta.Status = string(*status)
	}
	return c.JSON(model.SuccessResponse[model.PaginationData[T]]{
		Success: true,
		Data: model.PaginationData[T]{
			Items: items,
			Meta:  meta,
		},
	})
}
