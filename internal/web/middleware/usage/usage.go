// Package usage implements a middleware recording one usage log row per
// authenticated API request. The rows feed the statistics aggregation.
package usage

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/controller/usagelog"
	"github.com/webshield/webshield/internal/db/models"
	"github.com/webshield/webshield/internal/web/handler"
)

// New returns a fiber middleware writing usage logs for /api requests.
// Requests without a resolved user id, like rejected logins, are skipped.
func New(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), "/api") {
			return c.Next()
		}

		start := time.Now()
		chainErr := c.Next()

		userID := handler.UserID(c)
		if userID == 0 {
			return chainErr
		}

		entry := models.UsageLog{
			UserID:         userID,
			Endpoint:       c.Path(),
			Method:         c.Method(),
			StatusCode:     c.Response().StatusCode(),
			ResponseTimeMs: float64(time.Since(start).Microseconds()) / 1000.0, //nolint:mnd
		}

		if err := usagelog.Record(db, &entry); err != nil {
			// never fail the request over a lost usage row
			log.Error().Err(err).Str("endpoint", entry.Endpoint).Msg("failed to record usage log")
		}

		return chainErr
	}
}
