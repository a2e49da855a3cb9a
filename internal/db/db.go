package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/skilllink/internal/config"
	"github.com/oggyb/skilllink/internal/logger"
)

// NewDB opens the configured driver and migrates the schema.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DB.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DB.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DB.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DB.Driver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{
		NowFunc:        Now,
		Logger:         gormlogger.Default.LogMode(logger.GormLevel(cfg.Log.Level)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxOpenConns / 2)

	if err := Migrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

// Now is the clock used for every timestamp column. Millisecond precision
// in UTC keeps stored values comparable with pagination cursors on every driver.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Migrate keeps the schema in sync with the models.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
