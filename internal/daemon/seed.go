package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/config"
	"github.com/webshield/webshield/internal/db/models"
	"github.com/webshield/webshield/internal/web/session"
)

func seed(cfg *config.Config, db *gorm.DB) {
	// Seed an admin account if the user table is empty. Credentials are
	// managed by the external auth service; here we only bootstrap the
	// record and a first session token so the API is reachable.

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		return
	}

	admin := models.User{
		Email:   "admin@" + cfg.Webserver.Domain,
		Name:    "Administrator",
		IsAdmin: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
		return
	}

	token := session.GenerateSessionID()
	data := session.Data{UserID: admin.ID, Email: admin.Email}

	if err := data.Write(token, cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write bootstrap session")
		return
	}

	log.Info().
		Str("email", admin.Email).
		Str("token", token).
		Msg("seeded admin user with bootstrap session token")
}
