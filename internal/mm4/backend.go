// Package mm4 receives carrier-delivered MMS over the MM4 interface, which
// rides on SMTP. Parsed deliveries become raw records in the spool; each
// delivery also kicks the ingestion dispatcher.
package mm4

import (
	"log/slog"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/textforge/smshub/internal/ingest"
	"github.com/textforge/smshub/internal/mms"
)

// Receive limits
const (
	DefaultMaxMessageSize = 5 * 1024 * 1024 // typical carrier MMS ceiling
	DefaultMaxRecipients  = 20
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxLineLength  = 2000
)

// Backend implements the go-smtp Backend interface for MM4 deliveries
type Backend struct {
	spool      *mms.Spool
	dispatcher *ingest.Dispatcher
	logger     *slog.Logger
}

// NewBackend creates a new MM4 backend feeding the given spool and dispatcher
func NewBackend(spool *mms.Spool, dispatcher *ingest.Dispatcher, logger *slog.Logger) *Backend {
	return &Backend{
		spool:      spool,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// NewSession creates a new session for an incoming carrier connection
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	if b.logger != nil {
		b.logger.Debug("new MM4 connection", slog.String("remote_addr", c.Conn().RemoteAddr().String()))
	}
	return NewSession(b), nil
}

// ServerConfig holds settings for the MM4 listener
type ServerConfig struct {
	Addr           string
	Domain         string
	MaxMessageSize int64
	MaxRecipients  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewServer creates the MM4 SMTP server with receive limits applied
func NewServer(backend *Backend, cfg *ServerConfig) *smtp.Server {
	s := smtp.NewServer(backend)

	s.Addr = cfg.Addr
	s.Domain = cfg.Domain

	if cfg.MaxMessageSize > 0 {
		s.MaxMessageBytes = cfg.MaxMessageSize
	} else {
		s.MaxMessageBytes = DefaultMaxMessageSize
	}

	if cfg.MaxRecipients > 0 {
		s.MaxRecipients = cfg.MaxRecipients
	} else {
		s.MaxRecipients = DefaultMaxRecipients
	}

	if cfg.ReadTimeout > 0 {
		s.ReadTimeout = cfg.ReadTimeout
	} else {
		s.ReadTimeout = DefaultReadTimeout
	}

	if cfg.WriteTimeout > 0 {
		s.WriteTimeout = cfg.WriteTimeout
	} else {
		s.WriteTimeout = DefaultWriteTimeout
	}

	// MM4 peers are carrier MMSCs on a private interconnect; plaintext auth
	// is never offered.
	s.AllowInsecureAuth = false
	s.MaxLineLength = DefaultMaxLineLength

	return s
}
