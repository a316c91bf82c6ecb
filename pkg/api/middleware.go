package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

const requestIDHeader = "X-Request-ID"

// accessLogFormat puts the request ID first so a log line can be matched to a response header
const accessLogFormat = "[${time}] ${respHeader:" + requestIDHeader + "} ${status} - ${method} ${path}?${queryParams} (${latency})\n"

// middleware returns the handlers installed ahead of every route, outermost first
func middleware() []fiber.Handler {
	return []fiber.Handler{
		recover.New(recover.Config{EnableStackTrace: true}),
		requestid.New(requestid.Config{Header: requestIDHeader}),
		logger.New(logger.Config{Format: accessLogFormat}),
		// Browsers may read the dataset from any origin but never write to it.
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{requestIDHeader},
		}),
	}
}

func setupMiddleware(app *fiber.App) {
	for _, handler := range middleware() {
		app.Use(handler)
	}
}

// errorHandler answers {"error", "code"}; anything that is not a *fiber.Error becomes a bare 500
func errorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		fiberErr = fiber.ErrInternalServerError
	}

	return c.Status(fiberErr.Code).JSON(fiber.Map{
		"error": fiberErr.Message,
		"code":  fiberErr.Code,
	})
}
