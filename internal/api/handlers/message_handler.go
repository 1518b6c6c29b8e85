package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/textforge/smshub/internal/api/response"
	"github.com/textforge/smshub/internal/repository"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repository.MessageRepository, conversationRepo repository.ConversationRepository) *MessageHandler {
	return &MessageHandler{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
	}
}

// List handles GET /api/conversations/:conversation_id/messages
func (h *MessageHandler) List(c echo.Context) error {
	conversationID, err := parseID(c, "conversation_id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation ID")
	}

	// Verify conversation exists
	_, err = h.conversationRepo.GetByID(c.Request().Context(), conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to get conversation")
	}

	limit, offset := paging(c, 50)

	messages, total, err := h.messageRepo.ListByConversation(c.Request().Context(), conversationID, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list messages")
	}

	return response.Paginated(c, messages, total, limit, offset)
}

// Get handles GET /api/messages/:id
func (h *MessageHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	message, err := h.messageRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

// Delete handles DELETE /api/messages/:id
func (h *MessageHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid message ID")
	}

	if err := h.messageRepo.Delete(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}
