// Package notify delivers new-message notifications to the push gateway that
// renders them on paired devices.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ErrBackgroundRestricted signals that the gateway refused a background-
// priority delivery and the caller should retry in foreground mode. It mirrors
// the OS restriction on starting background work for fresh messages.
var ErrBackgroundRestricted = errors.New("background notification delivery restricted")

// Notifier triggers notification rendering for a conversation.
type Notifier interface {
	// Notify requests background-priority delivery. It may fail with
	// ErrBackgroundRestricted, in which case NotifyForeground must be tried.
	Notify(ctx context.Context, conversationID uint) error
	// NotifyForeground requests foreground-priority delivery, which the
	// gateway always accepts.
	NotifyForeground(ctx context.Context, conversationID uint) error
}

// pushPayload is the request body sent to the gateway.
type pushPayload struct {
	ConversationID uint   `json:"conversation_id"`
	Priority       string `json:"priority"`
}

// HTTPNotifier posts notification requests to a push gateway.
type HTTPNotifier struct {
	gatewayURL string
	client     *http.Client
	logger     *slog.Logger
}

// NewHTTPNotifier creates an HTTPNotifier for the given gateway URL.
func NewHTTPNotifier(gatewayURL string, logger *slog.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Notify requests background-priority delivery. A 429 from the gateway means
// background work is currently restricted; that comes back as
// ErrBackgroundRestricted so the caller can fall back to foreground mode.
func (n *HTTPNotifier) Notify(ctx context.Context, conversationID uint) error {
	return n.post(ctx, conversationID, "background")
}

// NotifyForeground requests foreground-priority delivery.
func (n *HTTPNotifier) NotifyForeground(ctx context.Context, conversationID uint) error {
	return n.post(ctx, conversationID, "foreground")
}

func (n *HTTPNotifier) post(ctx context.Context, conversationID uint, priority string) error {
	body, err := json.Marshal(pushPayload{ConversationID: conversationID, Priority: priority})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach push gateway: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests && priority == "background":
		return ErrBackgroundRestricted
	case resp.StatusCode >= 400:
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	if n.logger != nil {
		n.logger.Debug("notification dispatched",
			slog.Uint64("conversation_id", uint64(conversationID)),
			slog.String("priority", priority))
	}
	return nil
}
