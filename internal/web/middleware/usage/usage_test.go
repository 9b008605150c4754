package usage_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/db/models"
	"github.com/webshield/webshield/internal/web/handler"
	"github.com/webshield/webshield/internal/web/middleware/usage"
)

func newTestApp(t *testing.T, userID uint64) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.UsageLog{}))

	app := fiber.New()

	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(handler.UserIDLocal, userID)
			return c.Next()
		})
	}

	app.Use(usage.New(db))

	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	return app, db
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.UsageLog{}).Count(&count).Error)

	return count
}

func TestRecordsAPIRequest(t *testing.T) {
	app, db := newTestApp(t, 7)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entry models.UsageLog
	require.NoError(t, db.First(&entry).Error)

	assert.Equal(t, uint64(7), entry.UserID)
	assert.Equal(t, "/api/ping", entry.Endpoint)
	assert.Equal(t, fiber.MethodGet, entry.Method)
	assert.Equal(t, fiber.StatusOK, entry.StatusCode)
}

func TestSkipsNonAPIPaths(t *testing.T) {
	app, db := newTestApp(t, 7)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Zero(t, countRows(t, db))
}

func TestSkipsAnonymousRequests(t *testing.T) {
	app, db := newTestApp(t, 0)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Zero(t, countRows(t, db))
}
