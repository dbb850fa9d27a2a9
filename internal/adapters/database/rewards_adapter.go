package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// RewardsAdapter implements the RewardsRepository interface
type RewardsAdapter struct {
	exec Executor
}

// NewRewardsAdapter creates a new rewards adapter
func NewRewardsAdapter(client *postgres.Client) repositories.RewardsRepository {
	return &RewardsAdapter{exec: client.DB()}
}

// WithTx returns a copy of the adapter bound to tx
func (a *RewardsAdapter) WithTx(tx *sql.Tx) repositories.RewardsRepository {
	return &RewardsAdapter{exec: tx}
}

// AddPoints increments a renter's balance, creating the record at the given
// value when none exists
func (a *RewardsAdapter) AddPoints(ctx context.Context, renterID string, points int) error {
	query, args, err := dialect.Insert("rewards").
		Rows(goqu.Record{
			"renter_id":  renterID,
			"points":     points,
			"updated_at": goqu.L("NOW()"),
		}).
		OnConflict(goqu.DoUpdate("renter_id", goqu.Record{
			"points":     goqu.L("rewards.points + ?", points),
			"updated_at": goqu.L("NOW()"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to add reward points", err)
	}
	return nil
}

// DeductPoints decrements a renter's balance floored at zero. A renter
// without a record keeps none.
func (a *RewardsAdapter) DeductPoints(ctx context.Context, renterID string, points int) error {
	query, args, err := dialect.Update("rewards").
		Set(goqu.Record{
			"points":     goqu.L("GREATEST(points - ?, 0)", points),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"renter_id": renterID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to deduct reward points", err)
	}
	return nil
}

// Balance returns a renter's current balance, zero when no record exists
func (a *RewardsAdapter) Balance(ctx context.Context, renterID string) (int, error) {
	query, args, err := dialect.From("rewards").
		Select("points").
		Where(goqu.Ex{"renter_id": renterID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}

	var points int
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get reward balance", err)
	}
	return points, nil
}
