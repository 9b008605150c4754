// Package user serves the authenticated user endpoints: profile, settings
// and statistics.
package user

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/config"
	usercontroller "github.com/webshield/webshield/internal/db/controller/user"
	"github.com/webshield/webshield/internal/db/controller/usagelog"
	"github.com/webshield/webshield/internal/db/controller/usersettings"
	"github.com/webshield/webshield/internal/web/handler"
)

const (
	// Path is the base path of the user endpoints.
	Path = "/api/user"
)

// Service is the user handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the user handler.
var Handler = Service{}

// Init initializes the user handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get("/profile", s.GetProfile)
		router.Put("/profile", s.UpdateProfile)
		router.Get("/settings", s.GetSettings)
		router.Put("/settings", s.UpdateSettings)
		router.Get("/statistics", s.GetStatistics)
	})

	return nil
}

// GetProfile handles GET /api/user/profile.
func (s *Service) GetProfile(c *fiber.Ctx) error {
	profile, err := usercontroller.GetProfile(s.db, handler.UserID(c))
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Msg("failed to load profile")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	return handler.Success(c, profile)
}

// UpdateProfile handles PUT /api/user/profile.
func (s *Service) UpdateProfile(c *fiber.Ctx) error {
	var payload usercontroller.ProfileUpdate

	if err := c.BodyParser(&payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(&payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid email address")
	}

	profile, err := usercontroller.UpdateProfile(s.db, handler.UserID(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, usercontroller.ErrUserNotFound):
			return handler.Error(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, usercontroller.ErrEmailTaken):
			return handler.Error(c, fiber.StatusBadRequest, "email already in use")
		}

		log.Error().Err(err).Msg("failed to update profile")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	return handler.Success(c, profile)
}

// GetSettings handles GET /api/user/settings.
func (s *Service) GetSettings(c *fiber.Ctx) error {
	view, err := usersettings.Get(s.db, handler.UserID(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to load settings")
	}

	return handler.Success(c, view)
}

// UpdateSettings handles PUT /api/user/settings.
func (s *Service) UpdateSettings(c *fiber.Ctx) error {
	var payload usersettings.UpdatePayload

	if err := c.BodyParser(&payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	view, err := usersettings.Update(s.db, handler.UserID(c), payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to update settings")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to update settings")
	}

	return handler.Success(c, view)
}

// GetStatistics handles GET /api/user/statistics.
func (s *Service) GetStatistics(c *fiber.Ctx) error {
	stats, err := usagelog.Aggregate(s.db, handler.UserID(c), time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate statistics")
		return handler.Error(c, fiber.StatusInternalServerError, "failed to aggregate statistics")
	}

	return handler.Success(c, stats)
}
