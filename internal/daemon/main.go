// Package daemon wires persistence, sessions and the web service together.
package daemon

import (
	"fmt"

	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/config"
	"github.com/webshield/webshield/internal/db/dsn"
	"github.com/webshield/webshield/internal/db/models"
	"github.com/webshield/webshield/internal/web"
	"github.com/webshield/webshield/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Subscription{},
		&models.UsageLog{},
	); err != nil {
		panic("failed to migrate database")
	}

	// session store must exist before seeding, the seed writes a
	// bootstrap session token
	session.Init(openSessionStorage(cfg))

	seed(cfg, db)

	// keep the pointer web.New returned: the /checkalive closure captures it,
	// and Service carries an atomic.Bool that must not be copied
	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}

// openDialector selects the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	if cfg.DB.GormEngine == config.EnginePostgres {
		return gormpostgres.Open(dsn.Create(cfg))
	}

	return gormmysql.Open(dsn.Create(cfg))
}

// openSessionStorage selects the gofiber session storage matching the
// configured engine, so sessions live next to the application data.
func openSessionStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == config.EnginePostgres {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.CreatePostgresURL(cfg),
			Table:         "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
