// @title                       Membership API
// @version                     1.0
// @description                 Accounts, roles and event attendance for the student organization.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tbp-ucsd/membership-api/internal/api"
	"github.com/tbp-ucsd/membership-api/internal/core/lifecycle"
	"github.com/tbp-ucsd/membership-api/internal/core/service"
	"github.com/tbp-ucsd/membership-api/internal/infrastructure/config"
	mongodb "github.com/tbp-ucsd/membership-api/internal/infrastructure/db/mongo"
	"github.com/tbp-ucsd/membership-api/internal/infrastructure/db/postgres"
	redisdb "github.com/tbp-ucsd/membership-api/internal/infrastructure/db/redis"
	httpserver "github.com/tbp-ucsd/membership-api/internal/infrastructure/http"
	"github.com/tbp-ucsd/membership-api/internal/infrastructure/http/handlers"
	"github.com/tbp-ucsd/membership-api/internal/infrastructure/queue"
	"github.com/tbp-ucsd/membership-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Pretty: true})
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "membership-api",
	})

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("membership-api stopped")
		os.Exit(1)
	}
	log.Info().Msg("membership-api stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	// --- Storage ---
	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, Debug: cfg.LogLevel == "debug"}, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongodb.EnsureIndexes(ctx, mongoDB); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Audit workers ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(mongoDB), log)
	auditCtx, stopAudit := context.WithCancel(ctx)
	dispatcher.Start(auditCtx)
	defer dispatcher.Wait()
	defer stopAudit()

	// --- Services ---
	accounts := postgres.NewAccountRepository(db)
	events := postgres.NewEventRepository(db)
	hasher := lifecycle.NewBcryptHasher(cfg.Auth.BcryptCost)
	gate := lifecycle.NewGate(hasher, postgres.NewRoleRepository(db))
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout)

	svc := api.Services{
		Auth: service.NewAuthService(accounts, gate, hasher, limiter, dispatcher, service.TokenConfig{
			Secret: cfg.Auth.JWTSecret,
			TTL:    cfg.Auth.TokenTTL,
		}, log),
		Accounts: service.NewAccountService(accounts, events, gate, dispatcher, log),
		Events:   service.NewEventService(events, accounts, dispatcher, log),
	}

	checks := map[string]handlers.Check{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		"mongodb":  func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	e := api.NewRouter(svc, checks, cfg.Auth.JWTSecret, log)
	return httpserver.Run(ctx, e, ":"+cfg.Port, log)
}
