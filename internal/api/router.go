package api

import (
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/textforge/smshub/internal/api/handlers"
	"github.com/textforge/smshub/internal/api/middleware"
	"github.com/textforge/smshub/internal/logger"
	"github.com/textforge/smshub/internal/repository"
	ws "github.com/textforge/smshub/internal/websocket"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB     *gorm.DB
	Hub    *ws.Hub
	Logger *slog.Logger
	// Security configuration
	APIKey         string   // API key for authentication (empty = disabled)
	AllowedOrigins []string // Allowed CORS origins
	RateLimit      int      // Requests per second (0 = use env default)
	RateBurst      int      // Burst size for rate limiter
	EnableAuth     bool     // Enable API key authentication
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	secLog := logger.NewSecurityLogger()

	// Security middleware, outermost first
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())

	if len(cfg.AllowedOrigins) > 0 {
		os.Setenv("ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	}
	e.Use(middleware.SecureCORS())

	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(float64(cfg.RateLimit), cfg.RateBurst, secLog))
	} else {
		e.Use(middleware.RateLimiter(secLog))
	}

	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Repositories
	conversationRepo := repository.NewConversationRepository(cfg.DB)
	messageRepo := repository.NewMessageRepository(cfg.DB)
	blacklistRepo := repository.NewBlacklistRepository(cfg.DB)
	contactRepo := repository.NewContactRepository(cfg.DB)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo, conversationRepo)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistRepo)
	contactHandler := handlers.NewContactHandler(contactRepo)
	wsHandler := handlers.NewWSHandler(cfg.Hub, cfg.Logger)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// API routes
	api := e.Group("/api")

	if cfg.EnableAuth && cfg.APIKey != "" {
		os.Setenv("API_KEY", cfg.APIKey)
	}
	api.Use(middleware.APIKeyAuth(secLog))

	// WebSocket refresh feed
	api.GET("/ws", wsHandler.Subscribe)

	// Conversation routes
	conversations := api.Group("/conversations")
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.PATCH("/:id/read", conversationHandler.MarkRead)
	conversations.PATCH("/:id/mute", conversationHandler.SetMute)
	conversations.PATCH("/:id/archive", conversationHandler.SetArchived)
	conversations.DELETE("/:id", conversationHandler.Delete)

	// Message routes (nested under conversations)
	conversations.GET("/:conversation_id/messages", messageHandler.List)

	// Message routes (standalone)
	messages := api.Group("/messages")
	messages.GET("/:id", messageHandler.Get)
	messages.DELETE("/:id", messageHandler.Delete)

	// Blacklist routes
	blacklist := api.Group("/blacklist")
	blacklist.POST("", blacklistHandler.Create)
	blacklist.GET("", blacklistHandler.List)
	blacklist.DELETE("/:id", blacklistHandler.Delete)

	// Contact routes
	contacts := api.Group("/contacts")
	contacts.POST("", contactHandler.Upsert)
	contacts.GET("", contactHandler.List)
	contacts.DELETE("/:id", contactHandler.Delete)

	return e
}
