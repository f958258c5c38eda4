package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/albinmanuel/student-management-client/internal/api"
	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/repository"
	"github.com/albinmanuel/student-management-client/internal/service"
	"github.com/albinmanuel/student-management-client/pkg/config"
	"github.com/albinmanuel/student-management-client/pkg/logger"
)

const (
	ReadTimeout       = 5 * time.Second
	WriteTimeout      = 30 * time.Second
	IdleTimeout       = 60 * time.Second
	ReadHeaderTimeout = 1 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(".env")
	panicOnErr(ctx, "load config", err)

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	var tabs repository.TabRepository

	if cfg.RedisAddr != "" {
		redisTabs, err := repository.NewRedisTabRepository(cfg.RedisAddr, cfg.RedisPassword)
		panicOnErr(ctx, "connect to redis", err)

		tabs = redisTabs

		slog.InfoContext(ctx, "using redis tab store", "addr", cfg.RedisAddr)
	} else {
		tabs = repository.NewMemoryTabRepository()

		slog.InfoContext(ctx, "using in-memory tab store")
	}

	gateway := school.NewClient(cfg.BackendURL, cfg.Gateway)
	registry := service.NewRegistry(gateway, tabs)

	h := api.NewHandler()
	mw := api.NewMiddleware(registry, cfg)
	router := api.NewRouter(h, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	go func() {
		slog.InfoContext(ctx, "console listening", "port", cfg.HTTPPort, "backend", cfg.BackendURL)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "graceful shutdown failed", "error", err)
	}

	slog.Info("console stopped")
}

func panicOnErr(ctx context.Context, msg string, err error) {
	if err != nil {
		slog.ErrorContext(ctx, msg, "error", err)
		os.Exit(1)
	}
}
