package media

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/repository"
)

// MIME types stamped on parsed media annotations.
const (
	MimeMediaYouTube = "media/youtube-v2"
	MimeMediaWeb     = "media/web"
)

// LinkParser turns a recognized media link inside a snippet into a derived
// media message appended to the conversation, so the UI can render a preview
// card instead of a bare URL.
type LinkParser struct {
	messages repository.MessageRepository
	logger   *slog.Logger
}

// NewLinkParser creates a LinkParser writing through the message repository.
func NewLinkParser(messages repository.MessageRepository, logger *slog.Logger) *LinkParser {
	return &LinkParser{messages: messages, logger: logger}
}

// Parse extracts the first media link from text and appends the annotation
// message to the conversation. Text without a recognized link is a no-op.
func (p *LinkParser) Parse(ctx context.Context, conversationID uint, text string) error {
	url := urlPattern.FindString(text)
	if url == "" {
		return nil
	}

	var mime string
	switch Classify(text) {
	case KindYouTube:
		mime = MimeMediaYouTube
	case KindImage, KindWeb:
		mime = MimeMediaWeb
	default:
		return nil
	}

	annotation := &models.Message{
		ConversationID: conversationID,
		Type:           models.MessageTypeInfo,
		Data:           url,
		Timestamp:      time.Now(),
		MimeType:       mime,
		Read:           true,
		Seen:           true,
		SentDeviceID:   models.SentFromLocalDevice,
	}
	if err := p.messages.Create(ctx, annotation); err != nil {
		return fmt.Errorf("failed to append media annotation: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("parsed media link",
			slog.Uint64("conversation_id", uint64(conversationID)),
			slog.String("mime", mime))
	}
	return nil
}
