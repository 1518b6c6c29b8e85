package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/textforge/smshub/internal/api/response"
	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/repository"
	"github.com/textforge/smshub/internal/validator"
)

// BlacklistHandler handles blacklist-related HTTP requests
type BlacklistHandler struct {
	blacklistRepo repository.BlacklistRepository
}

// NewBlacklistHandler creates a new BlacklistHandler
func NewBlacklistHandler(blacklistRepo repository.BlacklistRepository) *BlacklistHandler {
	return &BlacklistHandler{blacklistRepo: blacklistRepo}
}

// createBlacklistRequest is the request body for creating a blacklist entry
type createBlacklistRequest struct {
	PhoneNumber string `json:"phone_number"`
	Phrase      string `json:"phrase"`
}

// Create handles POST /api/blacklist
func (h *BlacklistHandler) Create(c echo.Context) error {
	var req createBlacklistRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.PhoneNumber == "" && req.Phrase == "" {
		return response.BadRequest(c, "phone_number or phrase is required")
	}
	if req.PhoneNumber != "" {
		if err := validator.ValidatePhoneNumber(req.PhoneNumber); err != nil {
			return response.BadRequest(c, "invalid phone number")
		}
	}
	if req.Phrase != "" {
		if err := validator.ValidatePhrase(req.Phrase); err != nil {
			return response.BadRequest(c, "invalid phrase")
		}
	}

	entry := &models.BlacklistEntry{
		PhoneNumber: req.PhoneNumber,
		Phrase:      req.Phrase,
	}
	if err := h.blacklistRepo.Create(c.Request().Context(), entry); err != nil {
		return response.InternalError(c, "failed to create blacklist entry")
	}

	return response.Created(c, entry)
}

// List handles GET /api/blacklist
func (h *BlacklistHandler) List(c echo.Context) error {
	entries, err := h.blacklistRepo.List(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list blacklist entries")
	}
	return response.Success(c, entries)
}

// Delete handles DELETE /api/blacklist/:id
func (h *BlacklistHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid blacklist entry ID")
	}

	if err := h.blacklistRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "blacklist entry not found")
		}
		return response.InternalError(c, "failed to delete blacklist entry")
	}

	return response.NoContent(c)
}
