package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/classdesk/classdesk/pkg/classdesk/api"
	"github.com/classdesk/classdesk/pkg/classdesk/auth"
	"github.com/classdesk/classdesk/pkg/classdesk/config"
)

// processOptions are runtime knobs of the server process itself, as
// opposed to the service wiring handled by the config package.
type processOptions struct {
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

func main() {
	var opts processOptions
	if err := cleanenv.ReadEnv(&opts); err != nil {
		slog.Error("failed to read process options", "error", err)
		os.Exit(1)
	}

	setupLogging(opts.LogLevel)

	serverConfig, err := config.Load(config.WithEnv(""))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokens(serverConfig.JWTSecret, opts.TokenTTL)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: api.NewRouter(svc, tokens),
	}

	go func() {
		slog.Info("classdesk server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.Storage.Type)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
