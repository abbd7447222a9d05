// Command server runs the career mentor HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/hupe1980/careermesh/config"
	"github.com/hupe1980/careermesh/httpapi"
	"github.com/hupe1980/careermesh/interview"
	"github.com/hupe1980/careermesh/logging"
	"github.com/hupe1980/careermesh/model"
	"github.com/hupe1980/careermesh/model/anthropic"
	"github.com/hupe1980/careermesh/model/openai"
	"github.com/hupe1980/careermesh/orchestrate"
	"github.com/hupe1980/careermesh/session/sqlite"
	"github.com/hupe1980/careermesh/tool"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	llm := newModel(cfg)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open session store", "error", err, "db_path", cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	router := tool.NewRouter()
	router.Register(tool.NewMarketSearch())

	appLogger := logging.NewSlogAdapter(logger)

	orchestrator := orchestrate.New(llm, func(o *orchestrate.Options) {
		o.MaxRounds = cfg.MaxRounds
		o.CallTimeout = cfg.CallTimeout
		o.Router = router
		o.Logger = appLogger
	})
	machine := interview.NewMachine(llm, store, func(o *interview.Options) {
		o.CallTimeout = cfg.CallTimeout
		o.Logger = appLogger
	})

	handler := httpapi.NewHandler(orchestrator, machine, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket interviews stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr, "provider", cfg.ModelProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newModel(cfg *config.Config) model.Model {
	switch cfg.ModelProvider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
		})
	default:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		})
	}
}
