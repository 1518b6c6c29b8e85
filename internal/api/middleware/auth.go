// Package middleware provides HTTP middleware for the smshub API.
package middleware

import (
	"crypto/subtle"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/textforge/smshub/internal/logger"
)

// APIKeyAuth validates the API key from the Authorization header.
// Uses constant-time comparison to prevent timing attacks.
func APIKeyAuth(secLog *logger.SecurityLogger) echo.MiddlewareFunc {
	validAPIKey := os.Getenv("API_KEY")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()

			// Health endpoints stay open
			if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/ready") {
				return next(c)
			}

			// Skip if API_KEY not configured (development mode)
			if validAPIKey == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if secLog != nil {
					secLog.AuthFailure(c.RealIP(), path, "missing authorization header")
				}
				return echo.NewHTTPError(401, map[string]string{
					"error": "missing authorization header",
					"code":  "UNAUTHORIZED",
				})
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			if subtle.ConstantTimeCompare([]byte(token), []byte(validAPIKey)) != 1 {
				if secLog != nil {
					secLog.AuthFailure(c.RealIP(), path, "invalid api key")
				}
				return echo.NewHTTPError(401, map[string]string{
					"error": "invalid API key",
					"code":  "UNAUTHORIZED",
				})
			}

			return next(c)
		}
	}
}
