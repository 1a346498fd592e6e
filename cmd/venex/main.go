package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/venexhq/venex/internal/config"
	"github.com/venexhq/venex/internal/engine"
	"github.com/venexhq/venex/internal/handler"
	"github.com/venexhq/venex/internal/service"
	"github.com/venexhq/venex/internal/store"
	"github.com/venexhq/venex/internal/token"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Deploy the configured token and register it with the resolver.
	tok := token.New(cfg.TokenName, cfg.TokenSymbol, cfg.TokenDecimals, cfg.TokenSupply, cfg.TokenDeployer)
	registry := token.NewRegistry()
	if err := registry.Register(tok); err != nil {
		logger.Error("failed to register token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("token registered",
		slog.String("symbol", tok.Symbol()),
		slog.String("name", tok.Name()),
		slog.Uint64("supply", tok.TotalSupply()),
		slog.String("deployer", cfg.TokenDeployer),
	)

	// Engine and stores.
	exchange := engine.NewExchange(cfg.FeeAccount, cfg.FeePercent, cfg.CustodyAccount, registry)
	tradeStore := store.NewTradeStore()
	webhookStore := store.NewWebhookStore()

	// Services.
	webhookSvc := service.NewWebhookService(webhookStore, cfg.WebhookTimeout)
	exchangeSvc := service.NewExchangeService(exchange, tradeStore, webhookSvc)
	tokenSvc := service.NewTokenService(registry)

	// Router.
	router := handler.NewRouter(exchangeSvc, tokenSvc, webhookSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("fee_account", cfg.FeeAccount),
			slog.Uint64("fee_percent", cfg.FeePercent),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
