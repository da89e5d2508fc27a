package http

import (
	"errors"

	"ruralhome_server/pkg/apperr"
	"ruralhome_server/pkg/logger"
	"ruralhome_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

// GetUserID safely extracts user_id from fiber context
// Returns error if not authenticated
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDVal := c.Locals("user_id")
	if userIDVal == nil {
		return uuid.Nil, ErrUnauthorized
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return userID, nil
}

// ErrorResponse logs server-side failures and renders the standard envelope.
func ErrorResponse(c *fiber.Ctx, err error, operation string) error {
	if errors.Is(err, ErrUnauthorized) {
		return response.Unauthorized(c, "unauthorized")
	}
	log := logger.WithContext(c.UserContext()).WithField("operation", operation).WithError(err)
	if status := apperr.GetHTTPStatus(err); status >= 500 {
		log.Error("[%s] request failed", operation)
	} else {
		log.Debug("[%s] rejected request", operation)
	}
	return response.FromError(c, err)
}

// QueryBool parses a boolean query parameter (returns false if not present)
func QueryBool(c *fiber.Ctx, key string) bool {
	val := c.Query(key)
	return val == "true" || val == "1"
}
