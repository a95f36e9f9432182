package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

// ReviewService is the admin workflow used by ReviewHandler.
type ReviewService interface {
	Approve(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor, req model.ApproveRequest) (*model.Achievement, error)
	Reject(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor, req model.RejectRequest) (*model.Achievement, error)
	CreateOnBehalf(ctx context.Context, memberID uuid.UUID, reviewer model.Actor, req model.CreateOnBehalfRequest) (*model.Achievement, error)
	ListQueue(ctx context.Context, reviewer model.Actor, status *model.ReviewStatus, page, limit int) ([]model.Achievement, int64, error)
	History(ctx context.Context, achievementID uuid.UUID, reviewer model.Actor) ([]model.ReviewEvent, error)
	PointTiers() []model.PointTier
}

type ReviewHandler struct {
	reviews ReviewService
}

func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// GET /api/v1/admin/achievements?status=pending
func (h *ReviewHandler) Queue(c *fiber.Ctx) error {
	status, ok := statusQuery(c)
	if !ok {
		return badRequest(c, "status must be pending, approved or rejected", nil)
	}
	if status == nil {
		pending := model.StatusPending
		status = &pending
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	items, total, err := h.reviews.ListQueue(c.UserContext(), actor(c), status, page, limit)
	if err != nil {
		return failWith(c, "failed to load review queue", err)
	}
	return paginated(c, items, total, page, limit, status)
}

// POST /api/v1/admin/achievements/:id/approve
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid achievement id", err)
	}

	var req model.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err)
	}

	a, err := h.reviews.Approve(c.UserContext(), id, actor(c), req)
	if err != nil {
		return failWith(c, "failed to approve achievement", err)
	}
	return c.JSON(model.SuccessResponse[*model.Achievement]{
		Success: true,
		Message: "achievement approved",
		Data:    a,
	})
}

// POST /api/v1/admin/achievements/:id/reject
func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid achievement id", err)
	}

	var req model.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err)
	}

	a, err := h.reviews.Reject(c.UserContext(), id, actor(c), req)
	if err != nil {
		return failWith(c, "failed to reject achievement", err)
	}
	return c.JSON(model.SuccessResponse[*model.Achievement]{
		Success: true,
		Message: "achievement rejected",
		Data:    a,
	})
}

// POST /api/v1/admin/members/:id/achievements
func (h *ReviewHandler) CreateOnBehalf(c *fiber.Ctx) error {
	memberID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid member id", err)
	}

	var req model.CreateOnBehalfRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err)
	}

	a, err := h.reviews.CreateOnBehalf(c.UserContext(), memberID, actor(c), req)
	if err != nil {
		return failWith(c, "failed to add achievement", err)
	}
	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[*model.Achievement]{
		Success: true,
		Message: "achievement added",
		Data:    a,
	})
}

// GET /api/v1/admin/achievements/:id/history
func (h *ReviewHandler) History(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid achievement id", err)
	}

	events, err := h.reviews.History(c.UserContext(), id, actor(c))
	if err != nil {
		return failWith(c, "failed to load review history", err)
	}
	return c.JSON(model.SuccessResponse[[]model.ReviewEvent]{Success: true, Data: events})
}

// GET /api/v1/admin/point-tiers
func (h *ReviewHandler) PointTiers(c *fiber.Ctx) error {
	return c.JSON(model.SuccessResponse[[]model.PointTier]{Success: true, Data: h.reviews.PointTiers()})
}
