package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/storage"
)

// Saver writes non-text message payloads to file storage. Saving is
// best-effort: callers log failures and move on.
type Saver struct {
	files  storage.FileStorage
	logger *slog.Logger
}

// NewSaver creates a Saver over the given file storage.
func NewSaver(files storage.FileStorage, logger *slog.Logger) *Saver {
	return &Saver{files: files, logger: logger}
}

// Save persists the payload of a non-text message part. The stored filename
// extension comes from sniffing the payload bytes, not from the declared MIME
// type, since carriers routinely mislabel parts.
func (s *Saver) Save(ctx context.Context, message *models.Message, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("empty media payload for message %d", message.ID)
	}

	detected := mimetype.Detect(payload)
	filename := fmt.Sprintf("mms-%d%s", message.ID, detected.Extension())

	path, err := s.files.Save(filename, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to save media: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("saved media payload",
			slog.Uint64("message_id", uint64(message.ID)),
			slog.String("declared_mime", message.MimeType),
			slog.String("detected_mime", detected.String()),
			slog.String("path", path))
	}
	return nil
}
