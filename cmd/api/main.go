package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/pricing-engine/api/controllers"
	"github.com/angelmondragon/pricing-engine/api/routes"
	"github.com/angelmondragon/pricing-engine/internal/pricecache"
	"github.com/angelmondragon/pricing-engine/internal/pricelists"
	"github.com/angelmondragon/pricing-engine/internal/pricing"
	"github.com/angelmondragon/pricing-engine/pkg/config"
	"github.com/angelmondragon/pricing-engine/pkg/db"
	"github.com/angelmondragon/pricing-engine/pkg/logger"
	"github.com/angelmondragon/pricing-engine/pkg/metrics"
	"github.com/angelmondragon/pricing-engine/pkg/migrate"
	"github.com/angelmondragon/pricing-engine/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pricing-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pricing-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "pricing api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(reg)

	registry, err := pricing.RegistryFromNames(cfg.Pricing.DefaultStrategy, cfg.Pricing.TenantStrategies)
	if err != nil {
		return err
	}
	repo := pricelists.NewRepository(dbClient.DB())
	engine, err := pricing.NewResolver(repo, pricing.WithStrategies(registry))
	if err != nil {
		return err
	}

	var (
		resolver    controllers.PriceResolver = engine
		invalidator pricelists.CacheInvalidator
		redisPinger redis.Pinger
	)
	if cfg.Pricing.CacheEnabled && cfg.Redis.Enabled() {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()

		var cached *pricecache.CachedResolver
		cached, err = pricecache.NewCachedResolver(engine, redisClient, logg, pricecache.Options{
			TTL:        cfg.Pricing.CacheTTL,
			DateBucket: cfg.Pricing.DateBucket,
			Metrics:    pricingMetrics,
		})
		if err != nil {
			return err
		}
		resolver = cached
		invalidator = pricecache.NewInvalidator(redisClient)
		redisPinger = redisClient
	} else {
		logg.Info(ctx, "price resolution cache disabled")
	}

	priceListService, err := pricelists.NewService(repo, dbClient, invalidator, logg)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisPinger, resolver, priceListService,
			pricingMetrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting pricing api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down pricing api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownWait)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
