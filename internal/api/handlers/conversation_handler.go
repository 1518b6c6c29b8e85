package handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/textforge/smshub/internal/api/response"
	"github.com/textforge/smshub/internal/repository"
)

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	conversationRepo repository.ConversationRepository
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationRepo repository.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{conversationRepo: conversationRepo}
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(c echo.Context) error {
	limit, offset := paging(c, 25)

	conversations, total, err := h.conversationRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list conversations")
	}

	return response.Paginated(c, conversations, total, limit, offset)
}

// Get handles GET /api/conversations/:id
func (h *ConversationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation ID")
	}

	conversation, err := h.conversationRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to get conversation")
	}

	return response.Success(c, conversation)
}

// MarkRead handles PATCH /api/conversations/:id/read
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation ID")
	}

	if err := h.conversationRepo.MarkRead(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to mark conversation read")
	}

	return response.NoContent(c)
}

// SetMute handles PATCH /api/conversations/:id/mute
func (h *ConversationHandler) SetMute(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation ID")
	}

	var body struct {
		Mute bool `json:"mute"`
	}
	if err := c.Bind(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.conversationRepo.SetMute(c.Request().Context(), id, body.Mute); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to update mute flag")
	}

	return response.NoContent(c)
}

// SetArchived handles PATCH /api/conversations/:id/archive
func (h *ConversationHandler) SetArchived(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation ID")
	}

	var body struct {
		Archived bool `json:"archived"`
	}
	if err := c.Bind(&body); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := h.conversationRepo.SetArchived(c.Request().Context(), id, body.Archived); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to update archive flag")
	}

	return response.NoContent(c)
}

// Delete handles DELETE /api/conversations/:id
func (h *ConversationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid conversation ID")
	}

	if err := h.conversationRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "conversation not found")
		}
		return response.InternalError(c, "failed to delete conversation")
	}

	return response.NoContent(c)
}

// parseID parses a uint path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// paging reads limit/offset query parameters with a default page size
func paging(c echo.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
