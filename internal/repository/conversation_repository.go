package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/textforge/smshub/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Conversation, error)
	GetByParticipants(ctx context.Context, participants string) (*models.Conversation, error)
	List(ctx context.Context, limit, offset int) ([]models.ConversationListItem, int64, error)
	MarkSeen(ctx context.Context, id uint) error
	MarkRead(ctx context.Context, id uint) error
	SetMute(ctx context.Context, id uint, mute bool) error
	SetArchived(ctx context.Context, id uint, archived bool) error
	Delete(ctx context.Context, id uint) error
}

// conversationRepository implements ConversationRepository using GORM
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// GetByID retrieves a conversation by its ID
func (r *conversationRepository) GetByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	result := r.db.WithContext(ctx).First(&conversation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation by ID: %w", result.Error)
	}
	return &conversation, nil
}

// GetByParticipants retrieves a conversation by its participant identity string
func (r *conversationRepository) GetByParticipants(ctx context.Context, participants string) (*models.Conversation, error) {
	var conversation models.Conversation
	result := r.db.WithContext(ctx).Where("participants = ?", participants).First(&conversation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation by participants: %w", result.Error)
	}
	return &conversation, nil
}

// List retrieves conversations ordered by most recent activity, with unread counts
func (r *conversationRepository) List(ctx context.Context, limit, offset int) ([]models.ConversationListItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Conversation{}).Where("archived = ?", false).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	var results []models.ConversationListItem

	query := `
		SELECT
			c.id,
			c.participants,
			c.title,
			c.snippet,
			c.timestamp,
			c.read,
			c.mute,
			COALESCE((SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id AND m.read = ?), 0) as unread_count
		FROM conversations c
		WHERE c.archived = ?
		ORDER BY c.timestamp DESC
		LIMIT ? OFFSET ?
	`

	if err := r.db.WithContext(ctx).Raw(query, false, false, limit, offset).Scan(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}

	return results, total, nil
}

// MarkSeen marks a conversation as seen
func (r *conversationRepository) MarkSeen(ctx context.Context, id uint) error {
	return r.updateFlag(ctx, id, "seen", true)
}

// MarkRead marks a conversation and all its messages as read
func (r *conversationRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Conversation{}).Where("id = ?", id).
			Updates(map[string]interface{}{"read": true, "seen": true})
		if result.Error != nil {
			return fmt.Errorf("failed to mark conversation read: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&models.Message{}).Where("conversation_id = ?", id).
			Updates(map[string]interface{}{"read": true, "seen": true}).Error; err != nil {
			return fmt.Errorf("failed to mark messages read: %w", err)
		}
		return nil
	})
}

// SetMute sets the mute flag on a conversation
func (r *conversationRepository) SetMute(ctx context.Context, id uint, mute bool) error {
	return r.updateFlag(ctx, id, "mute", mute)
}

// SetArchived sets the archived flag on a conversation
func (r *conversationRepository) SetArchived(ctx context.Context, id uint, archived bool) error {
	return r.updateFlag(ctx, id, "archived", archived)
}

// Delete deletes a conversation by its ID (cascade deletes messages)
func (r *conversationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Conversation{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete conversation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *conversationRepository) updateFlag(ctx context.Context, id uint, column string, value bool) error {
	result := r.db.WithContext(ctx).Model(&models.Conversation{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update conversation %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// touchPreview updates the conversation preview inside an existing transaction
// after a new incoming message lands.
func touchPreview(tx *gorm.DB, id uint, snippet string, timestamp time.Time) error {
	updates := map[string]interface{}{
		"timestamp": timestamp,
		"read":      false,
		"seen":      false,
	}
	if snippet != "" {
		updates["snippet"] = snippet
	}
	if err := tx.Model(&models.Conversation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update conversation preview: %w", err)
	}
	return nil
}
