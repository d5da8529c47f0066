package db

import (
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/concesionaria/internal/config"
	"github.com/diewo77/concesionaria/internal/models"
)

// ConnectAndMigrate opens the configured database and brings the schema up to
// date. With cfg.App.Migrations set, explicit SQL migrations run via
// golang-migrate (postgres only); otherwise GORM AutoMigrate is used, which is
// the development default and the only path for sqlite.
func ConnectAndMigrate(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.App.Dev {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	var db *gorm.DB
	var err error
	switch cfg.Database.Driver {
	case "postgres":
		// Retry to let postgres finish starting in container setups.
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(cfg.Database.DSN()), gormCfg)
			if err == nil {
				break
			}
			log.Warn().Err(err).Int("attempt", i+1).Msg("retrying database connection")
			time.Sleep(2 * time.Second)
		}
	default:
		db, err = gorm.Open(sqlite.Open(cfg.Database.Path), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if cfg.App.Migrations && cfg.Database.Driver == "postgres" {
		if err := runSQLMigrations(cfg.Database.URL()); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.App.Seed {
		if err := Seed(db); err != nil {
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}
	return db, nil
}

// Migrate applies the GORM auto-migrations plus the constraints AutoMigrate
// cannot express.
func Migrate(db *gorm.DB) error {
	for _, m := range []any{
		&models.Permission{},
		&models.Profile{},
		&models.User{},
		&models.Vehicle{},
		&models.Cart{},
		&models.CartItem{},
		&models.Purchase{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}

	// One active cart per user. A partial unique index (supported by both
	// sqlite and postgres) makes get-or-create safe under concurrent requests;
	// application-level checks alone cannot.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_one_active_per_user ON carts(user_id) WHERE active",
	).Error; err != nil {
		return fmt.Errorf("create active-cart index: %w", err)
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(url string) error {
	m, err := migrate.New("file://migrations", url)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
