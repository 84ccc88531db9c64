package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"offerboard/pkg/api"
	"offerboard/pkg/config"
	"offerboard/pkg/logger"
	"offerboard/pkg/metrics"
	"offerboard/pkg/otel"
	"offerboard/pkg/seed"
	"offerboard/pkg/store"
	"offerboard/pkg/store/memory"
	"offerboard/pkg/store/postgres"
	"offerboard/pkg/store/redisstore"
)

// @title Offerboard API
// @version 1.0
// @description Users, orders and offers with full create, read, update and delete support.
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.Load()

	level, err := logger.ParseLevel(cfg.LoggerLevel)
	if err != nil {
		level = logger.LevelInfo
	}
	log := logger.New(os.Stdout, level, cfg.ServiceName, otel.GetTraceID)
	defer log.Sync()

	ctx := context.Background()
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid config", "error", err)
		os.Exit(1)
	}

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.ServiceName,
		Host:        cfg.OtelHost,
		Probability: cfg.OtelProbability,
	})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	s, err := openStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if cfg.SeedFixtures {
		res, err := seed.Load(ctx, s)
		if err != nil {
			log.Error(ctx, "seed fixtures", "error", err)
			os.Exit(1)
		}
		log.Info(ctx, "fixtures loaded",
			"users", res.Users, "orders", res.Orders, "offers", res.Offers, "skipped", res.Skipped)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := api.NewRouter(s, log, api.Options{
		Tracer:    tp.Tracer(cfg.ServiceName),
		Metrics:   metrics.NewCollector(reg),
		Gatherer:  reg,
		RateLimit: cfg.RateLimitRPS,
		RateBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr, "driver", cfg.StoreDriver, "tls", cfg.TLSEnabled())
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server closed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info(ctx, "shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "graceful shutdown", "error", err)
		}
	}
	log.Info(ctx, "server stopped")
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case store.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case store.DriverRedis:
		s, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return memory.New(), nil
	}
}
