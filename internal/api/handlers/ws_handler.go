package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ws "github.com/textforge/smshub/internal/websocket"
)

// WSHandler upgrades HTTP connections into hub clients
type WSHandler struct {
	hub    *ws.Hub
	logger *slog.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Subscribe handles GET /api/ws - upgrades and joins the refresh hub
func (h *WSHandler) Subscribe(c echo.Context) error {
	upgrader := ws.NewSecureUpgrader(h.logger)
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	client := ws.NewClient(h.hub, conn, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	return nil
}
