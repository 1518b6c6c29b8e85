package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/textforge/smshub/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConversationRepositoryTestSuite is the test suite for ConversationRepository
type ConversationRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	repo     ConversationRepository
	messages MessageRepository
}

// SetupSuite runs once before all tests
func (s *ConversationRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.Conversation{}, &models.Message{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewConversationRepository(db)
	s.messages = NewMessageRepository(db)
}

// TearDownSuite runs once after all tests
func (s *ConversationRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test - clean up data
func (s *ConversationRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM messages")
	s.db.Exec("DELETE FROM conversations")
}

// TestConversationRepositoryTestSuite runs the test suite
func TestConversationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ConversationRepositoryTestSuite))
}

func (s *ConversationRepositoryTestSuite) createConversation(participants string) uint {
	msg := &models.Message{
		Type:      models.MessageTypeReceived,
		Data:      "hello",
		Timestamp: time.Now(),
		MimeType:  models.MimeTextPlain,
	}
	id, err := s.messages.Insert(context.Background(), msg, participants)
	require.NoError(s.T(), err)
	return id
}

// ==================== GetByID / GetByParticipants Tests ====================

func (s *ConversationRepositoryTestSuite) TestGetByID_Success() {
	// Arrange
	id := s.createConversation("5551234567")

	// Act
	conversation, err := s.repo.GetByID(context.Background(), id)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "5551234567", conversation.Participants)
}

func (s *ConversationRepositoryTestSuite) TestGetByID_NotFound() {
	// Act
	conversation, err := s.repo.GetByID(context.Background(), 99999)

	// Assert
	assert.ErrorIs(s.T(), err, ErrNotFound)
	assert.Nil(s.T(), conversation)
}

func (s *ConversationRepositoryTestSuite) TestGetByParticipants_Success() {
	// Arrange
	id := s.createConversation("5559876543, 5551234567")

	// Act
	conversation, err := s.repo.GetByParticipants(context.Background(), "5559876543, 5551234567")

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), id, conversation.ID)
	assert.True(s.T(), conversation.IsGroup())
}

// ==================== List Tests ====================

func (s *ConversationRepositoryTestSuite) TestList_OrderedByActivity() {
	// Arrange
	oldID := s.createConversation("5551111111")
	require.NoError(s.T(), s.db.Model(&models.Conversation{}).Where("id = ?", oldID).
		Update("timestamp", time.Now().Add(-time.Hour)).Error)
	newID := s.createConversation("5552222222")

	// Act
	items, total, err := s.repo.List(context.Background(), 10, 0)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), total)
	require.Len(s.T(), items, 2)
	assert.Equal(s.T(), newID, items[0].ID)
	assert.Equal(s.T(), oldID, items[1].ID)
}

func (s *ConversationRepositoryTestSuite) TestList_IncludesUnreadCount() {
	// Arrange
	id := s.createConversation("5551234567")
	msg := &models.Message{
		Type:      models.MessageTypeReceived,
		Data:      "second",
		Timestamp: time.Now(),
		MimeType:  models.MimeTextPlain,
	}
	_, err := s.messages.Insert(context.Background(), msg, "5551234567")
	require.NoError(s.T(), err)

	// Act
	items, _, err := s.repo.List(context.Background(), 10, 0)

	// Assert
	assert.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	assert.Equal(s.T(), id, items[0].ID)
	assert.Equal(s.T(), int64(2), items[0].UnreadCount)
}

func (s *ConversationRepositoryTestSuite) TestList_ExcludesArchived() {
	// Arrange
	id := s.createConversation("5551234567")
	s.createConversation("5559876543")
	require.NoError(s.T(), s.repo.SetArchived(context.Background(), id, true))

	// Act
	items, total, err := s.repo.List(context.Background(), 10, 0)

	// Assert
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), total)
	require.Len(s.T(), items, 1)
	assert.NotEqual(s.T(), id, items[0].ID)
}

// ==================== Flag Tests ====================

func (s *ConversationRepositoryTestSuite) TestMarkSeen() {
	// Arrange
	id := s.createConversation("5551234567")

	// Act
	err := s.repo.MarkSeen(context.Background(), id)

	// Assert
	assert.NoError(s.T(), err)
	conversation, err := s.repo.GetByID(context.Background(), id)
	require.NoError(s.T(), err)
	assert.True(s.T(), conversation.Seen)
	// Seen does not imply read
	assert.False(s.T(), conversation.Read)
}

func (s *ConversationRepositoryTestSuite) TestMarkRead_CascadesToMessages() {
	// Arrange
	id := s.createConversation("5551234567")

	// Act
	err := s.repo.MarkRead(context.Background(), id)

	// Assert
	assert.NoError(s.T(), err)
	conversation, err := s.repo.GetByID(context.Background(), id)
	require.NoError(s.T(), err)
	assert.True(s.T(), conversation.Read)
	assert.True(s.T(), conversation.Seen)

	count, err := s.messages.CountUnread(context.Background(), id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), count)
}

func (s *ConversationRepositoryTestSuite) TestMarkRead_NotFound() {
	// Act
	err := s.repo.MarkRead(context.Background(), 99999)

	// Assert
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ConversationRepositoryTestSuite) TestSetMute() {
	// Arrange
	id := s.createConversation("5551234567")

	// Act
	require.NoError(s.T(), s.repo.SetMute(context.Background(), id, true))

	// Assert
	conversation, err := s.repo.GetByID(context.Background(), id)
	require.NoError(s.T(), err)
	assert.True(s.T(), conversation.Mute)

	// And unmute
	require.NoError(s.T(), s.repo.SetMute(context.Background(), id, false))
	conversation, err = s.repo.GetByID(context.Background(), id)
	require.NoError(s.T(), err)
	assert.False(s.T(), conversation.Mute)
}

// ==================== Delete Tests ====================

func (s *ConversationRepositoryTestSuite) TestDelete_CascadesMessages() {
	// Arrange
	id := s.createConversation("5551234567")

	// Act
	err := s.repo.Delete(context.Background(), id)

	// Assert
	assert.NoError(s.T(), err)
	_, err = s.repo.GetByID(context.Background(), id)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	var count int64
	s.db.Model(&models.Message{}).Where("conversation_id = ?", id).Count(&count)
	assert.Equal(s.T(), int64(0), count)
}

func (s *ConversationRepositoryTestSuite) TestDelete_NotFound() {
	// Act
	err := s.repo.Delete(context.Background(), 99999)

	// Assert
	assert.ErrorIs(s.T(), err, ErrNotFound)
}
