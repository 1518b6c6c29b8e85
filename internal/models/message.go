package models

import (
	"strings"
	"time"
)

// Message type codes. Received is the only code the ingestion pipeline
// writes; the rest exist for the read side and future send support.
const (
	MessageTypeReceived = 0
	MessageTypeSent     = 1
	MessageTypeSending  = 2
	MessageTypeError    = 3
	MessageTypeInfo     = 5
)

// SentFromLocalDevice is the sentinel device id stamped on messages that were
// not relayed from another device ("local/unspecified").
const SentFromLocalDevice = -1

// MimeTextPlain is the MIME type of plain-text message parts.
const MimeTextPlain = "text/plain"

// Message represents one persisted message part within a conversation.
// SenderName is nil for 1:1 threads (the conversation itself names the peer);
// SimNumber is nil when the device has no enumerable SIM slots.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	Type           int       `gorm:"not null" json:"type"`
	Data           string    `json:"data"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
	MimeType       string    `gorm:"size:128" json:"mime_type"`
	Read           bool      `gorm:"default:false" json:"read"`
	Seen           bool      `gorm:"default:false" json:"seen"`
	SenderName     *string   `gorm:"size:255" json:"sender_name,omitempty"`
	SimNumber      *string   `gorm:"size:64" json:"sim_number,omitempty"`
	SentDeviceID   int64     `gorm:"default:-1" json:"sent_device_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// IsText reports whether the message payload is plain text.
func (m *Message) IsText() bool {
	return strings.HasPrefix(m.MimeType, MimeTextPlain)
}

// MessageListItem is a lightweight version for list views
type MessageListItem struct {
	ID         uint      `json:"id"`
	Type       int       `json:"type"`
	Data       string    `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
	MimeType   string    `json:"mime_type"`
	Read       bool      `json:"read"`
	SenderName *string   `json:"sender_name,omitempty"`
}
