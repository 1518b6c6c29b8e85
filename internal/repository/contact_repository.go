package repository

import (
	"context"
	"fmt"

	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/phone"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	// DisplayName resolves a phone number to a contact name. It never fails:
	// lookup errors and unknown numbers both fall back to the number itself.
	DisplayName(ctx context.Context, number string) string
	Upsert(ctx context.Context, contact *models.Contact) error
	List(ctx context.Context) ([]models.Contact, error)
	Delete(ctx context.Context, id uint) error
}

// contactRepository implements ContactRepository using GORM
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository instance
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// DisplayName looks up the contact name for a number, matching by loose
// fingerprint so stored formatting differences don't hide a contact
func (r *contactRepository) DisplayName(ctx context.Context, number string) string {
	var contacts []models.Contact
	if err := r.db.WithContext(ctx).Find(&contacts).Error; err != nil {
		return number
	}

	for _, c := range contacts {
		if phone.SameLoose(number, c.PhoneNumber) && c.Name != "" {
			return c.Name
		}
	}
	return number
}

// Upsert creates the contact or updates the name of an existing number
func (r *contactRepository) Upsert(ctx context.Context, contact *models.Contact) error {
	if contact.PhoneNumber == "" {
		return ErrInvalidInput
	}

	var existing models.Contact
	strict := phone.Canonicalize(contact.PhoneNumber).Strict
	result := r.db.WithContext(ctx).Where("phone_number = ? OR phone_number = ?", contact.PhoneNumber, strict).First(&existing)
	if result.Error == nil {
		existing.Name = contact.Name
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
		*contact = existing
		return nil
	}

	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// List retrieves all contacts ordered by name
func (r *contactRepository) List(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Delete deletes a contact by its ID
func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
