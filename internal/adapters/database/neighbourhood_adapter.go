package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// NeighbourhoodAdapter implements the NeighbourhoodRepository interface
type NeighbourhoodAdapter struct {
	exec Executor
}

// NewNeighbourhoodAdapter creates a new neighbourhood adapter
func NewNeighbourhoodAdapter(client *postgres.Client) repositories.NeighbourhoodRepository {
	return &NeighbourhoodAdapter{exec: client.DB()}
}

// WithTx returns a copy of the adapter bound to tx
func (a *NeighbourhoodAdapter) WithTx(tx *sql.Tx) repositories.NeighbourhoodRepository {
	return &NeighbourhoodAdapter{exec: tx}
}

// Create inserts the neighbourhood record for a property
func (a *NeighbourhoodAdapter) Create(ctx context.Context, neighbourhood *entities.Neighbourhood) error {
	query, args, err := dialect.Insert("neighbourhoods").Rows(goqu.Record{
		"property_id": neighbourhood.PropertyID,
		"crime_rate":  neighbourhood.CrimeRate,
		"school":      neighbourhood.School,
		"hospital":    neighbourhood.Hospital,
		"park":        neighbourhood.Park,
		"mart":        neighbourhood.Mart,
		"updated_at":  neighbourhood.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create neighbourhood", err)
	}
	return nil
}

// GetByPropertyID retrieves the neighbourhood record of a property
func (a *NeighbourhoodAdapter) GetByPropertyID(ctx context.Context, propertyID string) (*entities.Neighbourhood, error) {
	query, args, err := dialect.From("neighbourhoods").
		Select("property_id", "crime_rate", "school", "hospital", "park", "mart", "updated_at").
		Where(goqu.Ex{"property_id": propertyID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	neighbourhood := &entities.Neighbourhood{}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(
		&neighbourhood.PropertyID,
		&neighbourhood.CrimeRate,
		&neighbourhood.School,
		&neighbourhood.Hospital,
		&neighbourhood.Park,
		&neighbourhood.Mart,
		&neighbourhood.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("neighbourhood record for property %s not found", propertyID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get neighbourhood", err)
	}
	return neighbourhood, nil
}

// Update rewrites the neighbourhood record of a property
func (a *NeighbourhoodAdapter) Update(ctx context.Context, neighbourhood *entities.Neighbourhood) error {
	neighbourhood.UpdatedAt = time.Now()

	query, args, err := dialect.Update("neighbourhoods").
		Set(goqu.Record{
			"crime_rate": neighbourhood.CrimeRate,
			"school":     neighbourhood.School,
			"hospital":   neighbourhood.Hospital,
			"park":       neighbourhood.Park,
			"mart":       neighbourhood.Mart,
			"updated_at": neighbourhood.UpdatedAt,
		}).
		Where(goqu.Ex{"property_id": neighbourhood.PropertyID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update neighbourhood", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(
			fmt.Sprintf("neighbourhood record for property %s not found", neighbourhood.PropertyID))
	}
	return nil
}

// DeleteByPropertyID removes the neighbourhood record of a property
func (a *NeighbourhoodAdapter) DeleteByPropertyID(ctx context.Context, propertyID string) error {
	query, args, err := dialect.Delete("neighbourhoods").
		Where(goqu.Ex{"property_id": propertyID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete neighbourhood", err)
	}
	return nil
}
