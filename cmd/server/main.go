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
	"time"

	"personal_finance/internal/api"
	"personal_finance/internal/auth"
	"personal_finance/internal/config"
	"personal_finance/internal/fraud"
	"personal_finance/internal/repository/sqlite"
	"personal_finance/internal/service"
	"personal_finance/pkg/metrics"
)

const (
	appName = "personal_finance"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	logger := setupLogger()
	logger.Info("Starting application",
		slog.String("name", appName))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The model bundle must load before any traffic is accepted; a broken
	// artifact is a startup failure, not a request failure.
	evaluator, err := buildEvaluator(cfg, store, logger)
	if err != nil {
		logger.Error("Failed to set up fraud evaluator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsCollector := metrics.NewMetricsCollector(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	alertService := service.NewAlertService(&service.MockEmailSender{}, &service.MockSlackSender{}, cfg.Alerts.Workers, logger)
	txService := service.NewTransactionService(store.Transactions(), evaluator, metricsCollector, alertService, logger)
	userService := service.NewUserService(store.Users(), tokens, logger)

	apiHandler := api.NewAPIHandler(txService, userService, tokens, logger)
	metricsServer := metricsCollector.StartMetricsServer(cfg.Metrics.Addr)
	httpServer := startHTTPServer(cfg.Server.Addr, apiHandler, logger)

	waitForShutdown(logger, httpServer, metricsServer, alertService, store)
	logger.Info("Application shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func buildEvaluator(cfg *config.Config, store *sqlite.Store, logger *slog.Logger) (fraud.Evaluator, error) {
	newEngine := func() (*fraud.Engine, error) {
		bundle, err := fraud.LoadBundle(cfg.Fraud.ModelPath)
		if err != nil {
			return nil, err
		}
		logger.Info("Model bundle loaded",
			slog.String("path", cfg.Fraud.ModelPath),
			slog.Any("features", bundle.Features()))
		return fraud.NewEngine(bundle, cfg.Fraud.Threshold)
	}

	switch cfg.Fraud.Evaluator {
	case config.EvaluatorModel:
		return newEngine()
	case config.EvaluatorRules:
		return fraud.NewRuleEvaluator(store.Transactions()), nil
	case config.EvaluatorBoth:
		engine, err := newEngine()
		if err != nil {
			return nil, err
		}
		return fraud.NewCompositeEvaluator(engine, fraud.NewRuleEvaluator(store.Transactions())), nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", cfg.Fraud.Evaluator)
	}
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "message": "Welcome to the Personal Finance App"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	alertService *service.AlertService,
	store *sqlite.Store,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := alertService.Shutdown(ctx); err != nil {
		logger.Error("Alert service shutdown failed", slog.String("error", err.Error()))
	}

	if err := store.Close(); err != nil {
		logger.Error("Database close failed", slog.String("error", err.Error()))
	}
}
