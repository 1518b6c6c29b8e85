package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/textforge/smshub/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	// Insert persists an incoming message, resolving (or creating) the
	// conversation identified by the participant string in the same
	// transaction. Returns the conversation ID.
	Insert(ctx context.Context, message *models.Message, participants string) (uint, error)
	// Create persists a message into an already-resolved conversation without
	// touching conversation preview state (used for derived media annotations).
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID uint, limit, offset int) ([]models.MessageListItem, int64, error)
	ExistsRecent(ctx context.Context, participants, data string, window time.Duration) (bool, error)
	CountUnread(ctx context.Context, conversationID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Insert creates the message and updates conversation state transactionally.
// Concurrent workers may insert for the same participant string; the unique
// index on participants plus the retry below keeps them from racing a
// duplicate conversation into existence.
func (r *messageRepository) Insert(ctx context.Context, message *models.Message, participants string) (uint, error) {
	var conversationID uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversation := models.Conversation{
			Participants: participants,
			Timestamp:    message.Timestamp,
		}
		result := tx.Where("participants = ?", participants).First(&conversation)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up conversation: %w", result.Error)
			}
			if err := tx.Create(&conversation).Error; err != nil {
				if !isDuplicateKeyError(err) {
					return fmt.Errorf("failed to create conversation: %w", err)
				}
				// Lost the race to a concurrent worker; use its row.
				if err := tx.Where("participants = ?", participants).First(&conversation).Error; err != nil {
					return fmt.Errorf("failed to reload conversation: %w", err)
				}
			}
		}

		message.ConversationID = conversation.ID
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		snippet := ""
		if message.IsText() {
			snippet = message.Data
		}
		if err := touchPreview(tx, conversation.ID, snippet, message.Timestamp); err != nil {
			return err
		}

		conversationID = conversation.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	return conversationID, nil
}

// Create persists a message without conversation bookkeeping
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID retrieves a message by its ID
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// ListByConversation retrieves messages for a conversation with pagination,
// ordered by timestamp descending
func (r *messageRepository) ListByConversation(ctx context.Context, conversationID uint, limit, offset int) ([]models.MessageListItem, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Message{}).Where("conversation_id = ?", conversationID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var results []models.MessageListItem
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("id", "type", "data", "timestamp", "mime_type", "read", "sender_name").
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Scan(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	return results, total, nil
}

// ExistsRecent reports whether an identical payload already landed in the
// conversation within the given window. The default save policy uses this to
// drop carrier-duplicated deliveries.
func (r *messageRepository) ExistsRecent(ctx context.Context, participants, data string, window time.Duration) (bool, error) {
	var count int64
	since := time.Now().Add(-window)
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.participants = ? AND messages.data = ? AND messages.timestamp >= ?", participants, data, since).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate message: %w", err)
	}
	return count > 0, nil
}

// CountUnread counts unread messages in a conversation
func (r *messageRepository) CountUnread(ctx context.Context, conversationID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("conversation_id = ? AND read = ?", conversationID, false).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", result.Error)
	}
	return count, nil
}

// Delete deletes a message by its ID
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
