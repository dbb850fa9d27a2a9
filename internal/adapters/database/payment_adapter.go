package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// PaymentAdapter implements the PaymentRepository interface. The table is
// append-only; nothing here deletes or updates.
type PaymentAdapter struct {
	exec Executor
}

// NewPaymentAdapter creates a new payment adapter
func NewPaymentAdapter(client *postgres.Client) repositories.PaymentRepository {
	return &PaymentAdapter{exec: client.DB()}
}

// WithTx returns a copy of the adapter bound to tx
func (a *PaymentAdapter) WithTx(tx *sql.Tx) repositories.PaymentRepository {
	return &PaymentAdapter{exec: tx}
}

// Create appends a payment record
func (a *PaymentAdapter) Create(ctx context.Context, record *entities.PaymentRecord) error {
	query, args, err := dialect.Insert("payment_records").Rows(goqu.Record{
		"id":          record.ID,
		"renter_id":   record.RenterID,
		"booking_id":  record.BookingID,
		"card_holder": record.CardHolder,
		"card_number": record.CardNumber,
		"expiry":      record.Expiry,
		"cvv":         record.CVV,
		"created_at":  record.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create payment record", err)
	}
	return nil
}

// ListByRenter returns a renter's payment records in capture order
func (a *PaymentAdapter) ListByRenter(ctx context.Context, renterID string) ([]*entities.PaymentRecord, error) {
	query, args, err := dialect.From("payment_records").
		Select("id", "renter_id", "booking_id", "card_holder", "card_number", "expiry", "cvv", "created_at").
		Where(goqu.Ex{"renter_id": renterID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list payment records", err)
	}
	defer rows.Close()

	var records []*entities.PaymentRecord
	for rows.Next() {
		record := &entities.PaymentRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RenterID,
			&record.BookingID,
			&record.CardHolder,
			&record.CardNumber,
			&record.Expiry,
			&record.CVV,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan payment record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate payment records", err)
	}

	return records, nil
}
