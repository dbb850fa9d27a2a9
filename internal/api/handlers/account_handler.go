package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type registerRequest struct {
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Role       entities.UserRole `json:"role"`
	JobTitle   string            `json:"job_title,omitempty"`
	AgencyName string            `json:"agency_name,omitempty"`
}

// Register handles POST /api/accounts
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.accountService.Register(r.Context(), services.RegisterRequest{
		Email:      req.Email,
		Name:       req.Name,
		Address:    req.Address,
		Role:       req.Role,
		JobTitle:   req.JobTitle,
		AgencyName: req.AgencyName,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, profile)
}

// GetProfile handles GET /api/accounts/{email}
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		respondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	profile, err := h.accountService.GetProfile(r.Context(), email)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

type updateContactRequest struct {
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateContact handles PATCH /api/accounts/{email}
func (h *AccountHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	currentEmail := r.PathValue("email")
	if currentEmail == "" {
		respondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	var req updateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.accountService.UpdateContact(r.Context(), currentEmail, req.Email, req.Address)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
