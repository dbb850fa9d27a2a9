package repositories

import (
	"context"
	"database/sql"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// BookingRepository defines operations on the booking ledger. Bookings are
// inserted and deleted, never updated.
type BookingRepository interface {
	// WithTx returns a copy of the repository bound to tx
	WithTx(tx *sql.Tx) BookingRepository

	// Create inserts a booking row
	Create(ctx context.Context, booking *entities.Booking) error

	// GetByID retrieves a booking by its identifier
	GetByID(ctx context.Context, id string) (*entities.Booking, error)

	// Delete removes a booking row
	Delete(ctx context.Context, id string) error

	// ListByRenter returns a renter's bookings joined with the property kind,
	// in insertion order
	ListByRenter(ctx context.Context, renterID string) ([]*entities.Booking, error)

	// CountByProperty returns the number of bookings referencing a property
	CountByProperty(ctx context.Context, propertyID string) (int64, error)
}
