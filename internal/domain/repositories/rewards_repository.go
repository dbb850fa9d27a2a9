package repositories

import (
	"context"
	"database/sql"
)

// RewardsRepository defines operations on renter reward balances.
type RewardsRepository interface {
	// WithTx returns a copy of the repository bound to tx
	WithTx(tx *sql.Tx) RewardsRepository

	// AddPoints increments a renter's balance, creating the record at the
	// given value when none exists
	AddPoints(ctx context.Context, renterID string, points int) error

	// DeductPoints decrements a renter's balance floored at zero. A renter
	// without a record keeps none.
	DeductPoints(ctx context.Context, renterID string, points int) error

	// Balance returns a renter's current balance, zero when no record exists
	Balance(ctx context.Context, renterID string) (int, error)
}
