package config

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

func NewApp(cfg AppConfig, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "association-achievements",
		ErrorHandler: errorHandler(log),
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	return app
}

// errorHandler renders errors that escape handlers (unknown routes, panics,
// body limits) in the same envelope as handler errors.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "unhandled request error",
				"path", c.Path(), "method", c.Method(), "error", err)
		}

		return c.Status(code).JSON(model.ErrorResponse{
			Success: false,
			Message: message,
		})
	}
}
