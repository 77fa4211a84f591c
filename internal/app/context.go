package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/cache"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/embedding"
)

// AppContext holds shared dependencies (DB, Redis, Logger, embedder, policy)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Embedder   embedding.Source
	Policy     config.Policy
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, embedder embedding.Source, policy config.Policy) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Embedder:   embedder,
		Policy:     policy,
	}
}
