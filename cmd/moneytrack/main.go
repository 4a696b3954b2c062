package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"moneytrack/internal/backend"
	"moneytrack/internal/cache"
	"moneytrack/internal/cli"
	"moneytrack/internal/config"
	apphttp "moneytrack/internal/http"
	"moneytrack/internal/log"
	"moneytrack/internal/state"
)

const cacheSweepInterval = time.Minute

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cli.SetupLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger, time.Now).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldBackend, cfg.DataBackend, log.FieldError, err.Error())
			}
		}()
	}

	store := state.NewStore(res.Provider.Load(ctx), res.Provider, logger)
	caches := cache.NewManager(logger)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Store:              store,
		Health:             res.Provider,
		Logger:             logger,
		Currency:           cfg.CurrencySymbol,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		AnalyticsCacheTTL:  cfg.AnalyticsCacheTTL,
		AnalyticsCacheSize: cfg.AnalyticsCacheSize,
		Caches:             caches,
	})
	if err != nil {
		return err
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	logger.Info("Starting moneytrack server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldOperation, log.OpStartup)

	return cli.Serve(ctx, logger, srv, cfg.ShutdownTimeout,
		srv.RunMaintenance,
		func(ctx context.Context) error { return caches.Run(ctx, cacheSweepInterval) },
	)
}
