// Package filter serves the whitelist and blacklist endpoints.
package filter

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/config"
	"github.com/webshield/webshield/internal/db/controller/filterlist"
	"github.com/webshield/webshield/internal/web/handler"
)

const (
	// Path is the base path of the filter list endpoints.
	Path = "/api/filter"
)

// urlPayload is the body of a list add request.
type urlPayload struct {
	URL string `json:"url" validate:"required"`
}

// Service is the filter list handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the filter list handler.
var Handler = Service{}

// Init initializes the filter list handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get("/:list", s.GetList)
		router.Post("/:list", s.AddItem)
		router.Delete("/:list/:id", s.RemoveItem)
	})

	return nil
}

// GetList handles GET /api/filter/:list.
func (s *Service) GetList(c *fiber.Ctx) error {
	key := filterlist.ListKey(c.Params("list"))
	if !key.Valid() {
		return handler.Error(c, fiber.StatusBadRequest, "list must be whitelist or blacklist")
	}

	items, err := filterlist.Items(s.db, handler.UserID(c), key)
	if err != nil {
		log.Error().Err(err).Str("list", string(key)).Msg("failed to load filter list")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load filter list")
	}

	return handler.Success(c, items)
}

// AddItem handles POST /api/filter/:list.
func (s *Service) AddItem(c *fiber.Ctx) error {
	key := filterlist.ListKey(c.Params("list"))
	if !key.Valid() {
		return handler.Error(c, fiber.StatusBadRequest, "list must be whitelist or blacklist")
	}

	var payload urlPayload

	if err := c.BodyParser(&payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(&payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "url is required")
	}

	entry, err := filterlist.Add(s.db, handler.UserID(c), key, payload.URL)
	if err != nil {
		log.Error().Err(err).Str("list", string(key)).Msg("failed to add filter list entry")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to add filter list entry")
	}

	return handler.Success(c, entry)
}

// RemoveItem handles DELETE /api/filter/:list/:id.
func (s *Service) RemoveItem(c *fiber.Ctx) error {
	key := filterlist.ListKey(c.Params("list"))
	if !key.Valid() {
		return handler.Error(c, fiber.StatusBadRequest, "list must be whitelist or blacklist")
	}

	err := filterlist.Remove(s.db, handler.UserID(c), key, c.Params("id"))
	if err != nil {
		if errors.Is(err, filterlist.ErrEntryNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "item not found")
		}

		log.Error().Err(err).Str("list", string(key)).Msg("failed to remove filter list entry")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to remove filter list entry")
	}

	return handler.Success(c, true)
}
