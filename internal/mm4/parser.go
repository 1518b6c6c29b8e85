package mm4

import (
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/textforge/smshub/internal/mms"
	"github.com/textforge/smshub/internal/models"
)

// ParseRecord parses an MM4 payload (a MIME envelope) into a raw record.
// Text bodies become text/plain parts; every attachment and inline becomes a
// binary part. SMIL presentation wrappers are dropped, matching what the
// handset would display.
func ParseRecord(r io.Reader, from, to string) (*mms.Record, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIME envelope: %w", err)
	}

	received := parseDate(env.GetHeader("Date"))

	var parts []mms.Part
	seq := 0

	if env.Text != "" {
		parts = append(parts, mms.Part{
			Seq:       seq,
			MimeType:  models.MimeTextPlain,
			Text:      env.Text,
			Timestamp: received,
		})
		seq++
	}

	for _, att := range append(env.Attachments, env.Inlines...) {
		contentType := normalizeContentType(att.ContentType)
		if contentType == "application/smil" {
			continue
		}
		part := mms.Part{
			Seq:       seq,
			MimeType:  contentType,
			Timestamp: received,
		}
		if strings.HasPrefix(contentType, "text/") {
			part.Text = string(att.Content)
		} else {
			part.Data = att.Content
		}
		parts = append(parts, part)
		seq++
	}

	return mms.NewRecord(from, to, received, parts, nil), nil
}

// parseDate reads the envelope Date header, falling back to now
func parseDate(value string) time.Time {
	if value != "" {
		if t, err := mail.ParseDate(value); err == nil {
			return t
		}
	}
	return time.Now()
}

// normalizeContentType strips parameters from a declared content type
// ("image/jpeg; name=photo.jpg" -> "image/jpeg")
func normalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
