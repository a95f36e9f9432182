package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/service"
)

// AchievementService is the member-facing workflow used by AchievementHandler.
type AchievementService interface {
	Submit(ctx context.Context, memberID uuid.UUID, req model.SubmitAchievementRequest) (*model.Achievement, error)
	Update(ctx context.Context, achievementID, memberID uuid.UUID, req model.UpdateAchievementRequest) (*model.Achievement, error)
	Delete(ctx context.Context, achievementID, memberID uuid.UUID) error
	UploadCertificate(ctx context.Context, memberID uuid.UUID, file model.CertificateFile) (string, error)
	Get(ctx context.Context, achievementID uuid.UUID, actor model.Actor) (*model.Achievement, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, status *model.ReviewStatus, page, limit int) ([]model.Achievement, int64, error)
}

type AchievementHandler struct {
	achievements AchievementService
}

func NewAchievementHandler(achievements AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

// POST /api/v1/achievements
func (h *AchievementHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err)
	}
	req.IdempotencyKey = c.Get("Idempotency-Key")

	a, err := h.achievements.Submit(c.UserContext(), actor(c).ID, req)
	if err != nil {
		return failWith(c, "failed to submit achievement", err)
	}

	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[*model.Achievement]{
		Success: true,
		Message: "achievement submitted for review",
		Data:    a,
	})
}

// GET /api/v1/achievements/mine
func (h *AchievementHandler) ListMine(c *fiber.Ctx) error {
	status, ok := statusQuery(c)
	if !ok {
		return badRequest(c, "status must be pending, approved or rejected", nil)
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	items, total, err := h.achievements.ListByMember(c.UserContext(), actor(c).ID, status, page, limit)
	if err != nil {
		return failWith(c, "failed to load achievements", err)
	}
	return paginated(c, items, total, page, limit, status)
}

// GET /api/v1/members/:id/achievements lists approved achievements only.
func (h *AchievementHandler) ListApprovedByMember(c *fiber.Ctx) error {
	memberID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid member id", err)
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	approved := model.StatusApproved

	items, total, err := h.achievements.ListByMember(c.UserContext(), memberID, &approved, page, limit)
	if err != nil {
		return failWith(c, "failed to load achievements", err)
	}
	return paginated(c, items, total, page, limit, &approved)
}

// GET /api/v1/achievements/:id
func (h *AchievementHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid achievement id", err)
	}

	a, err := h.achievements.Get(c.UserContext(), id, actor(c))
	if err != nil {
		return failWith(c, "failed to load achievement", err)
	}
	return c.JSON(model.SuccessResponse[*model.Achievement]{Success: true, Data: a})
}

// PUT /api/v1/achievements/:id
func (h *AchievementHandler) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid achievement id", err)
	}

	var req model.UpdateAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err)
	}

	a, err := h.achievements.Update(c.UserContext(), id, actor(c).ID, req)
	if err != nil {
		return failWith(c, "failed to update achievement", err)
	}
	return c.JSON(model.SuccessResponse[*model.Achievement]{
		Success: true,
		Message: "achievement updated",
		Data:    a,
	})
}

// DELETE /api/v1/achievements/:id
func (h *AchievementHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid achievement id", err)
	}

	if err := h.achievements.Delete(c.UserContext(), id, actor(c).ID); err != nil {
		return failWith(c, "failed to delete achievement", err)
	}
	return c.JSON(model.SuccessMessageResponse{
		Success: true,
		Message: "achievement deleted",
	})
}

// POST /api/v1/achievements/certificate (multipart field "file")
func (h *AchievementHandler) UploadCertificate(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required", err)
	}

	src, err := fh.Open()
	if err != nil {
		return badRequest(c, "cannot read uploaded file", err)
	}
	defer src.Close()

	// One byte past the limit is enough for the service to reject it.
	data, err := io.ReadAll(io.LimitReader(src, service.MaxCertificateSize+1))
	if err != nil {
		return badRequest(c, "cannot read uploaded file", err)
	}

	url, err := h.achievements.UploadCertificate(c.UserContext(), actor(c).ID, model.CertificateFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
	})
	if err != nil {
		return failWith(c, "failed to upload certificate", err)
	}

	return c.Status(fiber.StatusCreated).JSON(model.SuccessResponse[model.CertificateResponse]{
		Success: true,
		Data:    model.CertificateResponse{FileURL: url},
	})
}
