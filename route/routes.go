package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/handler"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/middleware"
)

type Handlers struct {
	Achievements *handler.AchievementHandler
	Reviews      *handler.ReviewHandler
	Leaderboard  *handler.LeaderboardHandler
}

func SetupRoutes(app *fiber.App, h Handlers, jwtSecret string) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Public
	v1.Get("/leaderboard", h.Leaderboard.Leaderboard)
	v1.Get("/members/:id/standing", h.Leaderboard.Standing)
	v1.Get("/members/:id/achievements", h.Achievements.ListApprovedByMember)

	protected := v1.Group("", middleware.AuthRequired(jwtSecret))
	protected.Get("/me", handler.Profile)

	achievements := protected.Group("/achievements", middleware.RoleRequired(model.RoleMember, model.RoleAdmin))
	achievements.Post("/", h.Achievements.Submit)
	achievements.Post("/certificate", h.Achievements.UploadCertificate)
	achievements.Get("/mine", h.Achievements.ListMine)
	achievements.Get("/:id", h.Achievements.Get)
	achievements.Put("/:id", h.Achievements.Update)
	achievements.Delete("/:id", h.Achievements.Delete)

	admin := protected.Group("/admin", middleware.RoleRequired(model.RoleAdmin))
	admin.Get("/achievements", h.Reviews.Queue)
	admin.Post("/achievements/:id/approve", h.Reviews.Approve)
	admin.Post("/achievements/:id/reject", h.Reviews.Reject)
	admin.Get("/achievements/:id/history", h.Reviews.History)
	admin.Post("/members/:id/achievements", h.Reviews.CreateOnBehalf)
	admin.Get("/leaderboard/export", h.Leaderboard.Export)
	admin.Get("/point-tiers", h.Reviews.PointTiers)
}
