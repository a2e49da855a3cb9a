package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/auth"
	"github.com/oggyb/skilllink/internal/cache"
)

// AppContext holds shared dependencies (DB, Redis, Logger, Credentials)
type AppContext struct {
	DB          *gorm.DB
	RedisCache  *cache.RedisCache
	Logger      *slog.Logger
	Credentials *auth.Credentials
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, creds *auth.Credentials) *AppContext {
	return &AppContext{
		DB:          db,
		RedisCache:  rdb,
		Logger:      logger,
		Credentials: creds,
	}
}
