package models

import (
	"time"
)

// BlacklistEntry blocks incoming messages either by sender number (compared
// by loose fingerprint) or by a phrase contained in the message body. Exactly
// one of PhoneNumber and Phrase is normally set.
type BlacklistEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"size:64;index" json:"phone_number,omitempty"`
	Phrase      string    `gorm:"size:255" json:"phrase,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for BlacklistEntry
func (BlacklistEntry) TableName() string {
	return "blacklist"
}
