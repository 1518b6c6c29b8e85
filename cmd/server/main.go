package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/textforge/smshub/internal/api"
	"github.com/textforge/smshub/internal/config"
	"github.com/textforge/smshub/internal/database"
	"github.com/textforge/smshub/internal/device"
	"github.com/textforge/smshub/internal/ingest"
	"github.com/textforge/smshub/internal/media"
	"github.com/textforge/smshub/internal/mm4"
	"github.com/textforge/smshub/internal/mms"
	"github.com/textforge/smshub/internal/notify"
	"github.com/textforge/smshub/internal/repository"
	"github.com/textforge/smshub/internal/storage"
	ws "github.com/textforge/smshub/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting smshub")
	cfg.LogConfig(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.MediaStoragePath)
	if err != nil {
		logger.Error("failed to initialize media storage", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// WebSocket refresh hub
	hub := ws.NewHub(logger)
	go hub.Run()

	// Ingestion pipeline
	spool := mms.NewSpool()
	deviceProvider := device.NewStaticProvider(cfg.DeviceNumbers, cfg.SimNumbers)
	mediaSaver := media.NewSaver(fileStorage, logger)
	linkParser := media.NewLinkParser(messageRepo, logger)

	var notifier notify.Notifier
	if cfg.PushGatewayURL != "" {
		notifier = notify.NewHTTPNotifier(cfg.PushGatewayURL, logger)
	}

	orchestrator := ingest.NewOrchestrator(&ingest.OrchestratorConfig{
		Source:        spool,
		Blacklist:     blacklistRepo,
		Contacts:      contactRepo,
		Device:        deviceProvider,
		Messages:      messageRepo,
		Conversations: conversationRepo,
		Broadcaster:   hub,
		Saver:         mediaSaver,
		AutoSaveMedia: cfg.AutoSaveMedia,
		Logger:        logger,
	})

	dispatcher := ingest.NewDispatcher(&ingest.DispatcherConfig{
		Orchestrator: orchestrator,
		Notifier:     notifier,
		Parser:       linkParser,
		Logger:       logger,
	})

	// MM4 listener for carrier deliveries
	mm4Backend := mm4.NewBackend(spool, dispatcher, logger)
	mm4Server := mm4.NewServer(mm4Backend, &mm4.ServerConfig{
		Addr:   fmt.Sprintf(":%d", cfg.MM4Port),
		Domain: "localhost",
	})

	go func() {
		logger.Info("MM4 listener starting", slog.Int("port", cfg.MM4Port))
		if err := mm4Server.ListenAndServe(); err != nil {
			logger.Error("MM4 listener stopped", slog.Any("error", err))
		}
	}()

	// HTTP API
	router := api.NewRouter(&api.RouterConfig{
		DB:             db,
		Hub:            hub,
		Logger:         logger,
		APIKey:         cfg.APIKey,
		AllowedOrigins: splitOrigins(cfg.AllowedOrigins),
		EnableAuth:     cfg.APIKey != "",
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.Info("API server starting", slog.Int("port", cfg.APIPort))
		if err := router.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("API server stopped", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := mm4Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("MM4 shutdown error", slog.Any("error", err))
	}
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("API shutdown error", slog.Any("error", err))
	}

	// Let in-flight ingestion workers drain before closing the database.
	dispatcher.Wait()

	logger.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
