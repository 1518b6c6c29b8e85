// Package logger provides structured security and pipeline event logging.
package logger

import (
	"log/slog"
	"os"
	"time"
)

// SecurityLogger logs security-relevant events. Message bodies and contact
// names are never included; only metadata is logged.
type SecurityLogger struct {
	logger *slog.Logger
}

// NewSecurityLogger creates a new SecurityLogger with JSON output.
func NewSecurityLogger() *SecurityLogger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &SecurityLogger{logger: slog.New(handler)}
}

// NewSecurityLoggerWithHandler creates a SecurityLogger with a custom handler.
func NewSecurityLoggerWithHandler(handler slog.Handler) *SecurityLogger {
	return &SecurityLogger{logger: slog.New(handler)}
}

// AuthFailure logs a failed API authentication attempt. Never logs the
// presented credentials.
func (s *SecurityLogger) AuthFailure(ip, path, reason string) {
	s.logger.Warn("authentication_failure",
		slog.String("event_type", "auth_failure"),
		slog.String("ip", ip),
		slog.String("path", path),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// RateLimitExceeded logs when a client exceeds rate limits.
func (s *SecurityLogger) RateLimitExceeded(ip, path string) {
	s.logger.Warn("rate_limit_exceeded",
		slog.String("event_type", "rate_limit"),
		slog.String("ip", ip),
		slog.String("path", path),
		slog.Time("timestamp", time.Now().UTC()),
	)
}

// BlockedSender logs a suppressed delivery from a blacklisted sender. The
// sender number is logged in fingerprint-redacted form: only the last four
// digits survive.
func (s *SecurityLogger) BlockedSender(lastFour string) {
	s.logger.Info("blocked_sender",
		slog.String("event_type", "blacklist"),
		slog.String("sender_suffix", lastFour),
		slog.Time("timestamp", time.Now().UTC()),
	)
}
