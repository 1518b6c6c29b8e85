package mm4

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-smtp"
	"github.com/textforge/smshub/internal/recipients"
)

// Session implements the go-smtp Session interface for one MM4 delivery
type Session struct {
	backend    *Backend
	from       string
	recipients []string
}

// NewSession creates a new MM4 session
func NewSession(backend *Backend) *Session {
	return &Session{
		backend:    backend,
		recipients: make([]string, 0),
	}
}

// AuthPlain rejects nothing; MM4 interconnects are IP-allowlisted upstream
func (s *Session) AuthPlain(username, password string) error {
	return nil
}

// Mail handles the MAIL FROM command; the envelope sender is the originating
// subscriber's MM4 address
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	if s.backend.logger != nil {
		s.backend.logger.Debug("MM4 MAIL FROM", slog.String("from", from))
	}
	return nil
}

// Rcpt handles the RCPT TO command; one command per addressed subscriber
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	number := numberFromAddress(to)
	if number == "" {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Invalid recipient address",
		}
	}
	s.recipients = append(s.recipients, number)
	return nil
}

// Data handles the DATA command: parse the MM4 payload into a raw record,
// spool it, and kick one ingestion worker. The session acknowledges as soon
// as the record is spooled; everything else happens off this goroutine.
func (s *Session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &smtp.SMTPError{
			Code:         503,
			EnhancedCode: smtp.EnhancedCode{5, 5, 1},
			Message:      "No recipients specified",
		}
	}

	from := numberFromAddress(s.from)
	to := strings.Join(s.recipients, recipients.Separator)

	record, err := ParseRecord(r, from, to)
	if err != nil {
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to parse MM4 payload", slog.Any("error", err))
		}
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Failed to parse message",
		}
	}

	s.backend.spool.Push(record)
	if s.backend.dispatcher != nil {
		s.backend.dispatcher.Dispatch(context.Background())
	}

	if s.backend.logger != nil {
		s.backend.logger.Info("MMS received",
			slog.String("from", from),
			slog.Int("recipients", len(s.recipients)),
			slog.Int("parts", len(record.Parts)))
	}
	return nil
}

// Reset resets the session state
func (s *Session) Reset() {
	s.from = ""
	s.recipients = make([]string, 0)
}

// Logout handles the end of the session
func (s *Session) Logout() error {
	return nil
}

// numberFromAddress extracts the subscriber phone number from an MM4 address.
// Carrier addressing looks like "+15551234567/TYPE=PLMN@mmsc.carrier.net";
// plain numbers pass through untouched.
func numberFromAddress(address string) string {
	address = strings.TrimPrefix(address, "<")
	address = strings.TrimSuffix(address, ">")
	address = strings.TrimSpace(address)

	if i := strings.IndexByte(address, '@'); i >= 0 {
		address = address[:i]
	}
	if i := strings.Index(address, "/TYPE="); i >= 0 {
		address = address[:i]
	}
	return address
}
