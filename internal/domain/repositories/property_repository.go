package repositories

import (
	"context"
	"database/sql"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// PropertyRepository defines catalog data operations over the base property
// row and its per-kind details row. Implementations returned by WithTx bind
// every operation to the given transaction.
type PropertyRepository interface {
	// WithTx returns a copy of the repository bound to tx
	WithTx(tx *sql.Tx) PropertyRepository

	// NextID returns the next free listing identifier, one greater than the
	// current numeric maximum, zero-padded to ten digits
	NextID(ctx context.Context) (string, error)

	// Create inserts the base property row and its details row
	Create(ctx context.Context, property *entities.Property) error

	// GetByID retrieves a property together with its details record
	GetByID(ctx context.Context, id string) (*entities.Property, error)

	// Update rewrites the base row and the details row of an existing property
	Update(ctx context.Context, property *entities.Property) error

	// Delete removes the details row and then the base row
	Delete(ctx context.Context, id string) error

	// Search returns listing summaries matching the filter, joined with
	// price, availability, and owner agent name
	Search(ctx context.Context, filter SearchFilter) ([]*entities.ListingSummary, error)

	// ListByAgency returns listing summaries owned by any agent of the agency
	ListByAgency(ctx context.Context, agencyName string) ([]*entities.ListingSummary, error)

	// OwnerAgentID returns the id of the agent owning the property
	OwnerAgentID(ctx context.Context, id string) (string, error)

	// FlipAvailability sets the availability flag of the property's details
	// row, guarded on the flag currently holding the opposite value. It
	// returns the number of rows changed: zero means the guard failed and
	// the caller lost an availability race.
	FlipAvailability(ctx context.Context, id string, kind entities.PropertyKind, available bool) (int64, error)
}

// SearchFilter filters listing search. Empty fields impose no constraint;
// non-empty fields match as case-insensitive substrings.
type SearchFilter struct {
	City  string
	State string
}
