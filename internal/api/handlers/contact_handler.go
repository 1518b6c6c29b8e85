package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/textforge/smshub/internal/api/response"
	"github.com/textforge/smshub/internal/models"
	"github.com/textforge/smshub/internal/phone"
	"github.com/textforge/smshub/internal/repository"
	"github.com/textforge/smshub/internal/validator"
)

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactRepo repository.ContactRepository
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactRepo repository.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

// contactView is a contact with its display-formatted number
type contactView struct {
	models.Contact
	FormattedNumber string `json:"formatted_number"`
}

// upsertContactRequest is the request body for creating or updating a contact
type upsertContactRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// Upsert handles POST /api/contacts
func (h *ContactHandler) Upsert(c echo.Context) error {
	var req upsertContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validator.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		return response.BadRequest(c, "invalid phone number")
	}

	contact := &models.Contact{
		PhoneNumber: req.PhoneNumber,
		Name:        validator.SanitizeName(req.Name),
	}
	if err := h.contactRepo.Upsert(c.Request().Context(), contact); err != nil {
		return response.InternalError(c, "failed to save contact")
	}

	return response.Created(c, contactView{
		Contact:         *contact,
		FormattedNumber: phone.FormatForDisplay(contact.PhoneNumber),
	})
}

// List handles GET /api/contacts
func (h *ContactHandler) List(c echo.Context) error {
	contacts, err := h.contactRepo.List(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list contacts")
	}

	views := make([]contactView, 0, len(contacts))
	for _, contact := range contacts {
		views = append(views, contactView{
			Contact:         contact,
			FormattedNumber: phone.FormatForDisplay(contact.PhoneNumber),
		})
	}
	return response.Success(c, views)
}

// Delete handles DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid contact ID")
	}

	if err := h.contactRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "contact not found")
		}
		return response.InternalError(c, "failed to delete contact")
	}

	return response.NoContent(c)
}
