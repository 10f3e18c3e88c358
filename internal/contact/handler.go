package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/contactdesk/contactdesk/internal/httputil"
	"github.com/contactdesk/contactdesk/internal/logging"
)

// ContactRepository defines the storage operations the handlers consume
type ContactRepository interface {
	Create(ctx context.Context, mobile, email, address, regNumber string) (*Contact, error)
	GetByRegNumber(ctx context.Context, regNumber string) (*Contact, error)
}

// Handler contains HTTP handlers for contact endpoints.
// All routes are mounted behind the auth middleware.
type Handler struct {
	repo   ContactRepository
	logger *logging.Logger
}

func NewHandler(repo ContactRepository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest represents the contact submission body
type CreateRequest struct {
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	RegNumber string `json:"reg_number"`
}

// validate checks required fields before the record reaches storage
func (req *CreateRequest) validate() (string, string) {
	switch {
	case strings.TrimSpace(req.RegNumber) == "":
		return "reg_number is required", httputil.CodeRegNumberRequired
	case strings.TrimSpace(req.Mobile) == "":
		return "mobile is required", httputil.CodeInvalidRequestBody
	case strings.TrimSpace(req.Email) == "":
		return "email is required", httputil.CodeEmailRequired
	case strings.TrimSpace(req.Address) == "":
		return "address is required", httputil.CodeInvalidRequestBody
	}
	return "", ""
}

// Create handles contact submission
// @Summary      Submit a contact
// @Description  Store a new contact record. Requires authentication.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Contact details"
// @Success      201 {object} Contact
// @Failure      400 {object} map[string]string "Validation error"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      500 {object} map[string]string "Internal server error"
// @Router       /contacts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid contact request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if msg, code := req.validate(); msg != "" {
		logger.Warn("contact validation failed", "error", msg)
		httputil.RespondErrorWithCode(w, msg, code, http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), req.Mobile, req.Email, req.Address, req.RegNumber)
	if err != nil {
		logger.Error("failed to create contact", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to save contact", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("contact saved", "contact_id", created.ID, "reg_number", created.RegNumber)

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Search handles contact lookup by registration number
// @Summary      Search contacts
// @Description  Look up a contact record by registration number. Requires authentication.
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        reg_number query string true "Registration number"
// @Success      200 {object} Contact
// @Failure      400 {object} map[string]string "Missing reg_number"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "Contact not found"
// @Router       /contacts/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	regNumber := strings.TrimSpace(r.URL.Query().Get("reg_number"))
	if regNumber == "" {
		httputil.RespondErrorWithCode(w, "reg_number is required", httputil.CodeRegNumberRequired, http.StatusBadRequest)
		return
	}

	found, err := h.repo.GetByRegNumber(r.Context(), regNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "contact not found", httputil.CodeContactNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to search contact", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to search contacts", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}
