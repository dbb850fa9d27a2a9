package repositories

import (
	"context"
	"database/sql"
)

// TxRunner executes a function inside a single database transaction: either
// every write the function performs becomes visible, or none do. The booking
// and catalog workflows use it as their atomic unit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
