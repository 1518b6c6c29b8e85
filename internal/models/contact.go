package models

import (
	"time"
)

// Contact maps a phone number to a display name. The ingestion pipeline only
// reads contacts; rows are written by the sync surface.
type Contact struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"not null;size:64;index" json:"phone_number"`
	Name        string    `gorm:"size:255" json:"name"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
