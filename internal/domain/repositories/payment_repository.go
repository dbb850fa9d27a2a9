package repositories

import (
	"context"
	"database/sql"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// PaymentRepository defines operations on captured payment records. The
// store is append-only; records are never updated or deleted.
type PaymentRepository interface {
	// WithTx returns a copy of the repository bound to tx
	WithTx(tx *sql.Tx) PaymentRepository

	// Create appends a payment record
	Create(ctx context.Context, record *entities.PaymentRecord) error

	// ListByRenter returns a renter's payment records in capture order
	ListByRenter(ctx context.Context, renterID string) ([]*entities.PaymentRecord, error)
}
