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

	"pocketnotes/internal/config"
	"pocketnotes/internal/handler"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/repository"
	"pocketnotes/internal/service"
	"pocketnotes/internal/store"
	"pocketnotes/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pocketnotes: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error(context.Background(), "failed to close store", "error", err)
		}
	}()
	logger.Info(ctx, "store opened", "driver", cfg.Store.Driver)

	accountRepo := repository.NewAccountRepository(kv, logger)
	noteRepo := repository.NewNoteRepository(kv, logger)
	sessionRepo := repository.NewSessionRepository(kv)

	sessionService := service.NewSessionService(accountRepo, sessionRepo, logger)
	go sessionService.Load(ctx)

	wsManager := websocket.NewManager(cfg.WebSocket, logger)
	wsCtx, stopWS := context.WithCancel(context.Background())
	defer stopWS()
	go wsManager.Run(wsCtx)

	noteService := service.NewNoteService(noteRepo, wsManager, logger)
	wsManager.SetMessageHandler(handler.NewWebSocketMessageHandler(noteService, wsManager, logger))

	router := handler.NewRouter(cfg, sessionService, noteService, wsManager, logger)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting server", "addr", addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	stopWS()

	logger.Info(context.Background(), "server stopped gracefully")
	return nil
}
