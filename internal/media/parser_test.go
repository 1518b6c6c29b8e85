package media

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupParserTest(t *testing.T) (*LinkParser, *gorm.DB, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Conversation{}, &models.Message{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	messages := repository.NewMessageRepository(db)
	conversationID, err := messages.Insert(context.Background(), &models.Message{
		Type:      models.MessageTypeReceived,
		Data:      "original",
		Timestamp: time.Now(),
		MimeType:  models.MimeTextPlain,
	}, "5551234567")
	require.NoError(t, err)

	return NewLinkParser(messages, nil), db, conversationID
}

func TestLinkParser_YouTubeAnnotation(t *testing.T) {
	parser, db, conversationID := setupParserTest(t)

	err := parser.Parse(context.Background(), conversationID, "watch https://youtube.com/watch?v=abc123")
	require.NoError(t, err)

	var annotation models.Message
	require.NoError(t, db.Where("type = ?", models.MessageTypeInfo).First(&annotation).Error)
	assert.Equal(t, MimeMediaYouTube, annotation.MimeType)
	assert.Equal(t, "https://youtube.com/watch?v=abc123", annotation.Data)
	assert.Equal(t, conversationID, annotation.ConversationID)
	// Derived rows never show up as unread
	assert.True(t, annotation.Read)
}

func TestLinkParser_WebAnnotation(t *testing.T) {
	parser, db, conversationID := setupParserTest(t)

	err := parser.Parse(context.Background(), conversationID, "read https://example.com/article")
	require.NoError(t, err)

	var annotation models.Message
	require.NoError(t, db.Where("type = ?", models.MessageTypeInfo).First(&annotation).Error)
	assert.Equal(t, MimeMediaWeb, annotation.MimeType)
}

func TestLinkParser_NoLinkIsNoop(t *testing.T) {
	parser, db, conversationID := setupParserTest(t)

	err := parser.Parse(context.Background(), conversationID, "nothing to see")
	require.NoError(t, err)

	var count int64
	db.Model(&models.Message{}).Where("type = ?", models.MessageTypeInfo).Count(&count)
	assert.Zero(t, count)
}

func TestLinkParser_PreviewUntouched(t *testing.T) {
	parser, db, conversationID := setupParserTest(t)

	require.NoError(t, parser.Parse(context.Background(), conversationID, "https://example.com"))

	var conversation models.Conversation
	require.NoError(t, db.First(&conversation, conversationID).Error)
	// The annotation must not replace the user-visible snippet
	assert.Equal(t, "original", conversation.Snippet)
}
