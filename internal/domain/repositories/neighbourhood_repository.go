package repositories

import (
	"context"
	"database/sql"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
)

// NeighbourhoodRepository defines operations on per-property neighbourhood
// metadata. Records live and die with their property.
type NeighbourhoodRepository interface {
	// WithTx returns a copy of the repository bound to tx
	WithTx(tx *sql.Tx) NeighbourhoodRepository

	// Create inserts the neighbourhood record for a property
	Create(ctx context.Context, neighbourhood *entities.Neighbourhood) error

	// GetByPropertyID retrieves the neighbourhood record of a property
	GetByPropertyID(ctx context.Context, propertyID string) (*entities.Neighbourhood, error)

	// Update rewrites the neighbourhood record of a property
	Update(ctx context.Context, neighbourhood *entities.Neighbourhood) error

	// DeleteByPropertyID removes the neighbourhood record of a property
	DeleteByPropertyID(ctx context.Context, propertyID string) error
}
