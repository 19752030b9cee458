// Package bootstrap wires configuration, storage, services and
// adapters into runnable API and bot processes.
package bootstrap

import (
	"context"
	"time"

	"github.com/ArthurBash/telegramBot/adapter/out/persistence"
	"github.com/ArthurBash/telegramBot/adapter/out/telegram"
	"github.com/ArthurBash/telegramBot/config"
	"github.com/ArthurBash/telegramBot/core/domain"
	"github.com/ArthurBash/telegramBot/core/service/categorizer"
	"github.com/ArthurBash/telegramBot/core/service/category"
	"github.com/ArthurBash/telegramBot/core/service/message"
	"github.com/ArthurBash/telegramBot/infra/database"
	"github.com/ArthurBash/telegramBot/pkg/cache"
	"github.com/ArthurBash/telegramBot/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Dependencies holds all shared components.
type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Repositories
	CategoryRepo domain.CategoryRepository
	MessageRepo  domain.MessageRepository

	// Services
	Engine          *categorizer.Engine
	CategoryService *category.Service
	MessageService  *message.Service

	// Outbound
	TelegramClient *telegram.Client
}

// NewDependencies initializes all dependencies. The returned cleanup
// closes every connection it opened.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL (pgx pool for health checks, sqlx for repositories)
	pool, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = pool
	cleanups = append(cleanups, pool.Close)

	sqlDB, err := database.NewSQLx(cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { _ = sqlDB.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, sqlDB); err != nil {
		cleanup()
		return nil, nil, err
	}

	// Redis is optional: without it the category snapshot is read from
	// Postgres on every message.
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, running without category cache")
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { _ = redisClient.Close() })
		}
	}

	// Repositories
	categoryAdapter := persistence.NewCategoryAdapter(sqlDB)
	if deps.Redis != nil {
		deps.CategoryRepo = persistence.NewCachedCategoryAdapter(
			categoryAdapter, cache.NewRedisCache(deps.Redis), cfg.CategoryCacheTTL)
	} else {
		deps.CategoryRepo = categoryAdapter
	}
	deps.MessageRepo = persistence.NewMessageAdapter(sqlDB)

	// Categorization engine
	engine, err := categorizer.New(categorizer.Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		DefaultCategory:     cfg.DefaultCategory,
	}, logger.Default())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.Engine = engine

	// Services
	deps.CategoryService = category.NewService(deps.CategoryRepo, cfg.DefaultCategory, logger.Default())
	deps.MessageService = message.NewService(engine, deps.CategoryRepo, deps.MessageRepo, logger.Default())

	// Telegram client
	deps.TelegramClient = telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramAPIURL, cfg.PollTimeout, logger.Default())

	logger.Info("Dependencies initialized (redis=%v)", deps.Redis != nil)
	return deps, cleanup, nil
}
