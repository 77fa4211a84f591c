package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hey-granth/profile-guard/internal/config"
)

// NewDB initializes the database connection for the configured driver.
//
// TranslateError is always on: repositories rely on gorm.ErrDuplicatedKey to
// detect a lost insert race on a unique index.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.Log.Level)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate brings the schema in sync with the models.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to enable pgvector: %w", err)
		}
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.Driver {
	case "", "mysql":
		return mysql.Open(cfg.DB.DSN), nil
	case "postgres":
		return postgres.Open(cfg.DB.PostgresDSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DB.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

func gormLogLevel(level string) logger.LogLevel {
	if level == "debug" {
		return logger.Info // log SQL queries
	}
	return logger.Warn
}
