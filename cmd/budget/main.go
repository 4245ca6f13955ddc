package main

import (
	"context"
	"os"
	"time"

	"budget/internal/backend"
	"budget/internal/cli"
	apphttp "budget/internal/http"
	ledgerlog "budget/internal/log"
	"budget/internal/middleware/cors"
)

func main() {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(nil, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, ledgerlog.ComponentApp, os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", ledgerlog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(cfg.Addr(), res.Ledger, apphttp.Config{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		StatsCacheTTL:      cfg.StatsCacheTTL,
		CORSOrigins:        cors.ParseOrigins(cfg.CORSAllowedOrigins),
		Logger:             logger.WithComponent(ledgerlog.ComponentHTTP),
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", ledgerlog.FieldError, err)
		}
	}()

	logger.Info("Starting budget server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", res.Events)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", ledgerlog.FieldError, err, "port", cfg.Port)
		stop()
		return
	}
	logger.Info("Server stopped gracefully")
}
