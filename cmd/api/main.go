// @title           Timesheet API
// @version         1.0
// @description     Time logging with a daily hour cap and cached project billing summaries.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

//go:generate swag init -g main.go -d ./,../../internal/api/handler -o ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/billable/timesheet-api/docs"
	"github.com/billable/timesheet-api/internal/api"
	"github.com/billable/timesheet-api/internal/api/handler"
	"github.com/billable/timesheet-api/internal/core/ports"
	"github.com/billable/timesheet-api/internal/core/service"
	"github.com/billable/timesheet-api/internal/infrastructure/db/memory"
	mongodb "github.com/billable/timesheet-api/internal/infrastructure/db/mongo"
	redisdb "github.com/billable/timesheet-api/internal/infrastructure/db/redis"
	"github.com/billable/timesheet-api/internal/infrastructure/db/seed"
	"github.com/billable/timesheet-api/internal/pkg/config"
	"github.com/billable/timesheet-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	logs     ports.TimeLogRepository
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not configured yet
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "timesheet-api",
	})

	// hours and amounts are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	checks := map[string]handler.DependencyCheck{}
	var closers []func(context.Context)

	repos, err := openStore(ctx, cfg, checks, &closers)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	if cfg.SeedDemoData {
		loaded, err := seed.Load(ctx, repos.users, repos.projects, repos.logs)
		if err != nil {
			log.Fatal().Err(err).Msg("seed demo data")
		}
		log.Info().Bool("loaded", loaded).Msg("demo data checked")
	}

	// nil interface leaves idempotency keys ignored
	var idempotency service.IdempotencyStore
	if cfg.Redis.Enabled {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
		}
		idempotency = redisdb.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		closers = append(closers, func(context.Context) { _ = client.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis idempotency store enabled")
	}

	aggregator := service.NewBillingAggregator(repos.projects, repos.users, repos.logs)
	cache := service.NewSummaryCache(aggregator, logger.Component("billing"))

	router := api.NewRouter(api.RouterDeps{
		Auth:      service.NewAuthService(repos.users, cfg.JWTSecret, cfg.JWTTTL),
		Projects:  service.NewProjectService(repos.projects, cache, logger.Component("projects")),
		Billing:   service.NewBillingService(cache, logger.Component("billing")),
		TimeLogs:  service.NewTimeLogService(repos.projects, repos.logs, cache, idempotency, logger.Component("timelogs")),
		JWTSecret: cfg.JWTSecret,
		Checks:    checks,
		Log:       logger.Component("http"),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("http server listening")
		if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i](shutdownCtx)
	}
	log.Info().Msg("stopped")
}

// openStore returns the repositories for the configured driver and registers
// readiness checks and close hooks for external connections.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.DependencyCheck, closers *[]func(context.Context)) (repositories, error) {
	if cfg.StoreDriver != config.StoreMongo {
		store := memory.NewStore()
		return repositories{users: store, projects: store, logs: store}, nil
	}

	store, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return repositories{}, err
	}
	*closers = append(*closers, func(ctx context.Context) { _ = store.Close(ctx) })
	checks["mongodb"] = store.Ping

	return repositories{users: store.Users, projects: store.Projects, logs: store.TimeLogs}, nil
}
