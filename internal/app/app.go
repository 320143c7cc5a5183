// Package app wires configuration, storage adapters and services into a
// running cashback ingestion process.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/service"
	"github.com/cashback-api/cashback-system/internal/infrastructure/config"
	mongodb "github.com/cashback-api/cashback-system/internal/infrastructure/db/mongo"
	redisdb "github.com/cashback-api/cashback-system/internal/infrastructure/db/redis"
	"github.com/cashback-api/cashback-system/internal/infrastructure/queue"
	"github.com/cashback-api/cashback-system/internal/infrastructure/security"
	"github.com/cashback-api/cashback-system/pkg/logger"
)

// App holds the wired services and the connections they depend on.
type App struct {
	Transactions *service.TransactionService
	Auth         *service.AuthService
	Dispatcher   *queue.Dispatcher
	Health       *Health

	mongo  *mongo.Client
	redis  *goredis.Client
	cancel context.CancelFunc
	log    zerolog.Logger
}

// New connects to MongoDB and Redis, loads the category set and starts the
// ingestion dispatcher. onResult receives the outcome of every dispatched
// transaction and may be nil. Call Close to release everything.
func New(ctx context.Context, cfg *config.Config, onResult queue.ResultHandler) (*App, error) {
	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})
	log := logger.Component("app")

	signer, err := security.NewHS256Signer(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	a := &App{mongo: mongoClient, redis: rdb, log: log}

	categories, err := loadCategories(ctx, cfg.Ingest, func(ctx context.Context, key string) (domain.Categories, error) {
		return redisdb.LoadCategories(ctx, rdb, key)
	})
	if err != nil {
		a.closeConnections()
		return nil, err
	}
	log.Info().Strs("categories", categories.Names()).Msg("category set loaded")

	users := mongodb.NewUserRepository(db)
	transactions := mongodb.NewTransactionRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":        users.EnsureIndexes,
		"transactions": transactions.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			a.closeConnections()
			return nil, fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	a.Transactions = service.NewTransactionService(
		transactions,
		categories,
		redisdb.NewDedupChecker(rdb, cfg.Ingest.DedupTTL),
		logger.Component("ingest"),
	)
	a.Auth = service.NewAuthService(
		users,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		signer,
		cfg.Auth.TokenLifetime,
		logger.Component("auth"),
	)
	a.Health = NewHealth(map[string]Pinger{
		"mongodb": mongoPinger{mongoClient},
		"redis":   redisPinger{rdb},
	})

	workerCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Dispatcher = queue.NewDispatcher(cfg.Ingest.Workers, a.Transactions, onResult, logger.Component("dispatcher"))
	a.Dispatcher.Start(workerCtx)

	log.Info().Int("workers", cfg.Ingest.Workers).Msg("cashback system ready")
	return a, nil
}

// Authenticate resolves the user behind an Authorization header value.
func (a *App) Authenticate(ctx context.Context, authorization string) (domain.User, error) {
	token, err := security.BearerToken(authorization)
	if err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return a.Auth.CurrentUser(ctx, token)
}

// Close drains the dispatcher and closes the storage connections.
func (a *App) Close(ctx context.Context) error {
	a.Dispatcher.Close()
	a.cancel()
	return a.closeConnectionsCtx(ctx)
}

func (a *App) closeConnections() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.closeConnectionsCtx(ctx)
}

func (a *App) closeConnectionsCtx(ctx context.Context) error {
	var errs []error
	if err := a.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close mongo: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Error().Err(err).Msg("shutdown incomplete")
		return err
	}
	a.log.Info().Msg("connections closed")
	return nil
}

// loadCategories prefers the configured list and falls back to the Redis set.
// An empty result is an error: every product would be rejected.
func loadCategories(
	ctx context.Context,
	cfg config.IngestConfig,
	fromStore func(ctx context.Context, key string) (domain.Categories, error),
) (domain.Categories, error) {
	if len(cfg.Categories) > 0 {
		return domain.NewCategories(cfg.Categories...), nil
	}

	categories, err := fromStore(ctx, cfg.CategoriesKey)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no product categories configured (PRODUCT_CATEGORIES or redis set %q)", cfg.CategoriesKey)
	}
	return categories, nil
}
