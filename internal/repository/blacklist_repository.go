package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/phone"
	"gorm.io/gorm"
)

// BlacklistRepository defines the interface for blacklist data access
type BlacklistRepository interface {
	// IsBlacklisted reports whether the sender address matches a blocked
	// number. Numbers compare by loose fingerprint, so "+1 555-123-4567"
	// blocks "5551234567" too.
	IsBlacklisted(ctx context.Context, address string) (bool, error)
	// ContainsBlockedPhrase reports whether the body contains any blocked
	// phrase (case-insensitive substring match).
	ContainsBlockedPhrase(ctx context.Context, body string) (bool, error)
	Create(ctx context.Context, entry *models.BlacklistEntry) error
	List(ctx context.Context) ([]models.BlacklistEntry, error)
	Delete(ctx context.Context, id uint) error
}

// blacklistRepository implements BlacklistRepository using GORM
type blacklistRepository struct {
	db *gorm.DB
}

// NewBlacklistRepository creates a new BlacklistRepository instance
func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &blacklistRepository{db: db}
}

// IsBlacklisted checks the sender address against all blocked numbers
func (r *blacklistRepository) IsBlacklisted(ctx context.Context, address string) (bool, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&models.BlacklistEntry{}).
		Where("phone_number <> ''").
		Pluck("phone_number", &numbers).Error
	if err != nil {
		return false, fmt.Errorf("failed to load blacklist: %w", err)
	}

	for _, blocked := range numbers {
		if phone.SameLoose(address, blocked) {
			return true, nil
		}
	}
	return false, nil
}

// ContainsBlockedPhrase checks the message body against all blocked phrases
func (r *blacklistRepository) ContainsBlockedPhrase(ctx context.Context, body string) (bool, error) {
	if body == "" {
		return false, nil
	}

	var phrases []string
	err := r.db.WithContext(ctx).Model(&models.BlacklistEntry{}).
		Where("phrase <> ''").
		Pluck("phrase", &phrases).Error
	if err != nil {
		return false, fmt.Errorf("failed to load blocked phrases: %w", err)
	}

	lower := strings.ToLower(body)
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true, nil
		}
	}
	return false, nil
}

// Create creates a new blacklist entry
func (r *blacklistRepository) Create(ctx context.Context, entry *models.BlacklistEntry) error {
	if entry.PhoneNumber == "" && entry.Phrase == "" {
		return ErrInvalidInput
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create blacklist entry: %w", err)
	}
	return nil
}

// List retrieves all blacklist entries
func (r *blacklistRepository) List(ctx context.Context) ([]models.BlacklistEntry, error) {
	var entries []models.BlacklistEntry
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list blacklist entries: %w", err)
	}
	return entries, nil
}

// Delete deletes a blacklist entry by its ID
func (r *blacklistRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.BlacklistEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete blacklist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
