package models

import (
	"time"
)

// Conversation represents one message thread, keyed by the ordered,
// comma-separated participant identity string built by the recipient
// resolver. The same participant set always resolves to the same row.
type Conversation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Participants string    `gorm:"uniqueIndex;not null;size:1024" json:"participants"`
	Title        string    `gorm:"size:255" json:"title,omitempty"`
	Snippet      string    `gorm:"size:255" json:"snippet,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Read         bool      `gorm:"default:false" json:"read"`
	Seen         bool      `gorm:"default:false" json:"seen"`
	Mute         bool      `gorm:"default:false" json:"mute"`
	Archived     bool      `gorm:"default:false" json:"archived"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// IsGroup reports whether the conversation has more than one participant.
func (c *Conversation) IsGroup() bool {
	for i := 0; i+1 < len(c.Participants); i++ {
		if c.Participants[i] == ',' && c.Participants[i+1] == ' ' {
			return true
		}
	}
	return false
}

// ConversationListItem is a lightweight version for list views
type ConversationListItem struct {
	ID           uint      `json:"id"`
	Participants string    `json:"participants"`
	Title        string    `json:"title,omitempty"`
	Snippet      string    `json:"snippet,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Read         bool      `json:"read"`
	Mute         bool      `json:"mute"`
	UnreadCount  int64     `json:"unread_count"`
}
