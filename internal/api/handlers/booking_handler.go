package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/estatebook/estatebook/backend/internal/application/services"
	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// renterIDHeader identifies the acting renter on booking operations
const renterIDHeader = "X-Renter-ID"

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

type bookingRequest struct {
	PropertyID  string                `json:"property_id"`
	StartDate   time.Time             `json:"start_date"`
	PaymentMode entities.PaymentMode  `json:"payment_mode"`
	Card        *entities.CardDetails `json:"card,omitempty"`
}

// Book handles POST /api/bookings
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	renterID := r.Header.Get(renterIDHeader)
	if renterID == "" {
		respondWithError(w, http.StatusBadRequest, "renter ID header is required")
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.bookingService.Book(r.Context(), services.BookingRequest{
		RenterID:    renterID,
		PropertyID:  req.PropertyID,
		StartDate:   req.StartDate,
		PaymentMode: req.PaymentMode,
		Card:        req.Card,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// Cancel handles DELETE /api/bookings/{id}
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	renterID := r.Header.Get(renterIDHeader)
	if renterID == "" {
		respondWithError(w, http.StatusBadRequest, "renter ID header is required")
		return
	}

	bookingID := r.PathValue("id")
	if bookingID == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	refund, err := h.bookingService.Cancel(r.Context(), renterID, bookingID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status": "cancelled",
		"refund": refund,
	})
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	renterID := r.Header.Get(renterIDHeader)
	if renterID == "" {
		respondWithError(w, http.StatusBadRequest, "renter ID header is required")
		return
	}

	bookings, err := h.bookingService.ListBookings(r.Context(), renterID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetRewards handles GET /api/rewards
func (h *BookingHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	renterID := r.Header.Get(renterIDHeader)
	if renterID == "" {
		respondWithError(w, http.StatusBadRequest, "renter ID header is required")
		return
	}

	points, err := h.bookingService.RewardsBalance(r.Context(), renterID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"renter_id": renterID,
		"points":    points,
	})
}

// ListPayments handles GET /api/payments
func (h *BookingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	renterID := r.Header.Get(renterIDHeader)
	if renterID == "" {
		respondWithError(w, http.StatusBadRequest, "renter ID header is required")
		return
	}

	payments, err := h.bookingService.ListPayments(r.Context(), renterID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	})
}
