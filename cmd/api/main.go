// @title        Food Ordering API
// @version      1.0
// @description  Catalog, accounts and order ledger for a restaurant ordering backend.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/tastybite/food-ordering/docs"
	"github.com/tastybite/food-ordering/internal/api"
	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/service"
	mongodb "github.com/tastybite/food-ordering/internal/infrastructure/db/mongo"
	redisdb "github.com/tastybite/food-ordering/internal/infrastructure/db/redis"
	"github.com/tastybite/food-ordering/internal/infrastructure/http/handlers"
	"github.com/tastybite/food-ordering/internal/infrastructure/queue"
	"github.com/tastybite/food-ordering/internal/infrastructure/storage"
	"github.com/tastybite/food-ordering/internal/pkg/config"
	"github.com/tastybite/food-ordering/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "food-ordering",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	assets, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}

	users := mongodb.NewIdentityRepository(db, mongodb.UsersCollection)
	admins := mongodb.NewIdentityRepository(db, mongodb.AdminsCollection)
	orders := mongodb.NewOrderRepository(db)
	foods := mongodb.NewFoodRepository(db)

	for _, idx := range []interface{ EnsureIndexes(context.Context) error }{users, admins, orders, foods} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	// --- Services ---
	mode, err := service.ParseExpiryMode(cfg.Auth.ExpiryMode)
	if err != nil {
		return err
	}
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, mode, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	policy, err := service.ParseTotalPolicy(cfg.Orders.TotalPolicy)
	if err != nil {
		return err
	}

	audit := service.NewAuditService(mongodb.NewEventRepository(db), log.With().Str("component", "audit").Logger())
	dispatcher := queue.NewDispatcher(cfg.Orders.AuditWorkers, audit, log.With().Str("component", "dispatcher").Logger())
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	userAuth := service.NewAuthService(users, tokens, assets, service.AuthOptions{
		Kind:        domain.KindUser,
		BcryptCost:  cfg.Auth.BcryptCost,
		PhoneRegion: cfg.Auth.PhoneRegion,
	}, log)
	adminAuth := service.NewAuthService(admins, tokens, assets, service.AuthOptions{
		Kind:        domain.KindAdmin,
		BcryptCost:  cfg.Auth.BcryptCost,
		PhoneRegion: cfg.Auth.PhoneRegion,
	}, log)
	orderService := service.NewOrderService(
		orders,
		redisdb.NewIdempotencyStore(rdb, cfg.Redis.KeyPrefix, cfg.Orders.IdempotencyTTL),
		dispatcher,
		service.OrderOptions{StrictTransitions: cfg.Orders.StrictTransitions, TotalPolicy: policy},
		log,
	)
	foodService := service.NewFoodService(foods, assets, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Logger:                log,
		Tokens:                tokens,
		Users:                 userAuth,
		Admins:                adminAuth,
		Orders:                orderService,
		Foods:                 foodService,
		Readiness:             handlers.NewHealthDependenciesHandler(db, rdb),
		UploadDir:             assets.Dir(),
		MaxUploadBytes:        cfg.Uploads.MaxBytes,
		RequestTimeout:        cfg.RequestTimeout,
		AllOrdersRequireAdmin: cfg.Orders.AllOrdersRequireAdmin,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stopWorkers()
		dispatcher.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	return nil
}
