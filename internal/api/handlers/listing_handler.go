package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// agentIDHeader identifies the acting agent on listing mutations
const agentIDHeader = "X-Agent-ID"

// ListingHandler handles listing-related HTTP requests
type ListingHandler struct {
	catalogService *services.CatalogService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(catalogService *services.CatalogService) *ListingHandler {
	return &ListingHandler{
		catalogService: catalogService,
	}
}

// listingRequest is the wire shape of a listing create or update. Details is
// decoded into the concrete variant named by Kind.
type listingRequest struct {
	Kind          entities.PropertyKind  `json:"kind"`
	Description   string                 `json:"description"`
	City          string                 `json:"city"`
	State         string                 `json:"state"`
	Details       json.RawMessage        `json:"details"`
	Neighbourhood entities.Neighbourhood `json:"neighbourhood"`
}

func decodeDetails(kind entities.PropertyKind, raw json.RawMessage) (entities.PropertyDetails, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("property details are required")
	}

	switch kind {
	case entities.KindVacationHome:
		var d entities.VacationHomeDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, apperrors.NewValidationError("malformed property details")
		}
		return d, nil
	case entities.KindHouse:
		var d entities.HouseDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, apperrors.NewValidationError("malformed property details")
		}
		return d, nil
	case entities.KindApartment:
		var d entities.ApartmentDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, apperrors.NewValidationError("malformed property details")
		}
		return d, nil
	case entities.KindCommercialBuilding:
		var d entities.CommercialBuildingDetails
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, apperrors.NewValidationError("malformed property details")
		}
		return d, nil
	}
	return nil, apperrors.NewValidationError("unknown property kind")
}

func (req *listingRequest) toProperty() (*entities.Property, error) {
	details, err := decodeDetails(req.Kind, req.Details)
	if err != nil {
		return nil, err
	}
	return &entities.Property{
		Kind:        req.Kind,
		Description: req.Description,
		City:        req.City,
		State:       req.State,
		Details:     details,
	}, nil
}

// CreateListing handles POST /api/listings
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	agentID := r.Header.Get(agentIDHeader)
	if agentID == "" {
		respondWithError(w, http.StatusBadRequest, "agent ID header is required")
		return
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	property, err := req.toProperty()
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	listing, err := h.catalogService.CreateListing(r.Context(), agentID, property, &req.Neighbourhood)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, listing)
}

// GetListing handles GET /api/listings/{id}
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	listing, err := h.catalogService.GetListing(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// UpdateListing handles PUT /api/listings/{id}
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	agentID := r.Header.Get(agentIDHeader)
	if agentID == "" {
		respondWithError(w, http.StatusBadRequest, "agent ID header is required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	property, err := req.toProperty()
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	property.ID = id

	listing, err := h.catalogService.UpdateListing(r.Context(), agentID, property, &req.Neighbourhood)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// DeleteListing handles DELETE /api/listings/{id}
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	agentID := r.Header.Get(agentIDHeader)
	if agentID == "" {
		respondWithError(w, http.StatusBadRequest, "agent ID header is required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "listing ID is required")
		return
	}

	if err := h.catalogService.DeleteListing(r.Context(), agentID, id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SearchListings handles GET /api/listings/search
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	filter := repositories.SearchFilter{
		City:  r.URL.Query().Get("city"),
		State: r.URL.Query().Get("state"),
	}

	listings, err := h.catalogService.Search(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}

// ListAgencyListings handles GET /api/agency/listings
func (h *ListingHandler) ListAgencyListings(w http.ResponseWriter, r *http.Request) {
	agentID := r.Header.Get(agentIDHeader)
	if agentID == "" {
		respondWithError(w, http.StatusBadRequest, "agent ID header is required")
		return
	}

	listings, err := h.catalogService.ListAgencyListings(r.Context(), agentID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}
