package routes

import (
	"net/http"

	"github.com/estatebook/estatebook/backend/internal/api/handlers"
	"github.com/estatebook/estatebook/backend/internal/api/middleware"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	listingHandler *handlers.ListingHandler
	bookingHandler *handlers.BookingHandler
	accountHandler *handlers.AccountHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	listingHandler *handlers.ListingHandler,
	bookingHandler *handlers.BookingHandler,
	accountHandler *handlers.AccountHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		listingHandler: listingHandler,
		bookingHandler: bookingHandler,
		accountHandler: accountHandler,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Listing endpoints
	r.mux.HandleFunc("POST /api/listings", r.listingHandler.CreateListing)
	r.mux.HandleFunc("GET /api/listings/search", r.listingHandler.SearchListings)
	r.mux.HandleFunc("GET /api/listings/{id}", r.listingHandler.GetListing)
	r.mux.HandleFunc("PUT /api/listings/{id}", r.listingHandler.UpdateListing)
	r.mux.HandleFunc("DELETE /api/listings/{id}", r.listingHandler.DeleteListing)
	r.mux.HandleFunc("GET /api/agency/listings", r.listingHandler.ListAgencyListings)

	// Booking endpoints
	r.mux.HandleFunc("POST /api/bookings", r.bookingHandler.Book)
	r.mux.HandleFunc("GET /api/bookings", r.bookingHandler.ListBookings)
	r.mux.HandleFunc("DELETE /api/bookings/{id}", r.bookingHandler.Cancel)
	r.mux.HandleFunc("GET /api/rewards", r.bookingHandler.GetRewards)
	r.mux.HandleFunc("GET /api/payments", r.bookingHandler.ListPayments)

	// Account endpoints
	r.mux.HandleFunc("POST /api/accounts", r.accountHandler.Register)
	r.mux.HandleFunc("GET /api/accounts/{email}", r.accountHandler.GetProfile)
	r.mux.HandleFunc("PATCH /api/accounts/{email}", r.accountHandler.UpdateContact)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
