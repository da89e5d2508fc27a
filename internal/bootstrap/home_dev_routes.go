package bootstrap

import (
	"time"

	"ruralhome_server/config"
	"ruralhome_server/infra/middleware"
	"ruralhome_server/pkg/logger"
	"ruralhome_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RegisterDevRoutes registers development-only routes without authentication
// WARNING: Only enable in development environment!
func RegisterDevRoutes(app *fiber.App, cfg *config.Config) {
	dev := app.Group("/dev")

	// 로컬 테스트용 토큰 발급: POST /dev/token?user_id=<uuid>
	dev.Post("/token", func(c *fiber.Ctx) error {
		userID := uuid.New()
		if raw := c.Query("user_id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				return response.BadRequest(c, "invalid user_id")
			}
			userID = parsed
		}

		token, err := middleware.IssueToken(cfg.JWTSecret, userID, 24*time.Hour)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}

		logger.Info("[DevTest] issued token for user=%s", userID)
		return response.OK(c, fiber.Map{"user_id": userID, "token": token})
	})
}
