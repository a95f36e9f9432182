package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) (*model.LeaderboardResponse, error)
	MemberStanding(ctx context.Context, memberID uuid.UUID) (*model.RankedEntry, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

type LeaderboardHandler struct {
	leaderboard LeaderboardService
}

func NewLeaderboardHandler(leaderboard LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GET /api/v1/leaderboard?limit=10
func (h *LeaderboardHandler) Leaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return badRequest(c, "limit must not be negative", nil)
	}

	board, err := h.leaderboard.GetLeaderboard(c.UserContext(), limit)
	if err != nil {
		return failWith(c, "failed to load leaderboard", err)
	}
	return c.JSON(model.SuccessResponse[*model.LeaderboardResponse]{Success: true, Data: board})
}

// GET /api/v1/members/:id/standing
func (h *LeaderboardHandler) Standing(c *fiber.Ctx) error {
	memberID, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "invalid member id", err)
	}

	entry, err := h.leaderboard.MemberStanding(c.UserContext(), memberID)
	if err != nil {
		return failWith(c, "failed to load member standing", err)
	}
	return c.JSON(model.SuccessResponse[*model.RankedEntry]{Success: true, Data: entry})
}

// GET /api/v1/admin/leaderboard/export
func (h *LeaderboardHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.leaderboard.ExportXLSX(c.UserContext(), &buf); err != nil {
		return failWith(c, "failed to export leaderboard", err)
	}

	name := fmt.Sprintf("leaderboard-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}
