package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/estatebook/estatebook/backend/internal/domain/entities"
	"github.com/estatebook/estatebook/backend/internal/domain/repositories"
	"github.com/estatebook/estatebook/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/estatebook/estatebook/backend/pkg/errors"
)

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	exec Executor
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{exec: client.DB()}
}

// WithTx returns a copy of the adapter bound to tx
func (a *BookingAdapter) WithTx(tx *sql.Tx) repositories.BookingRepository {
	return &BookingAdapter{exec: tx}
}

// Create inserts a booking row
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	query, args, err := dialect.Insert("bookings").Rows(goqu.Record{
		"id":           booking.ID,
		"renter_id":    booking.RenterID,
		"property_id":  booking.PropertyID,
		"start_date":   booking.StartDate,
		"end_date":     booking.EndDate,
		"payment_mode": booking.PaymentMode,
		"total_cost":   booking.TotalCost,
		"created_at":   booking.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.exec.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by its identifier
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := dialect.From(goqu.T("bookings").As("b")).
		Select(
			goqu.I("b.id"),
			goqu.I("b.renter_id"),
			goqu.I("b.property_id"),
			goqu.I("b.start_date"),
			goqu.I("b.end_date"),
			goqu.I("b.payment_mode"),
			goqu.I("b.total_cost"),
			goqu.I("b.created_at"),
			goqu.I("p.kind"),
		).
		InnerJoin(goqu.T("properties").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("b.property_id")))).
		Where(goqu.Ex{"b.id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking := &entities.Booking{}
	err = a.exec.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.RenterID,
		&booking.PropertyID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.PaymentMode,
		&booking.TotalCost,
		&booking.CreatedAt,
		&booking.PropertyKind,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

// Delete removes a booking row
func (a *BookingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := dialect.Delete("bookings").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.exec.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete booking", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking %s not found", id))
	}
	return nil
}

// ListByRenter returns a renter's bookings in insertion order
func (a *BookingAdapter) ListByRenter(ctx context.Context, renterID string) ([]*entities.Booking, error) {
	query, args, err := dialect.From(goqu.T("bookings").As("b")).
		Select(
			goqu.I("b.id"),
			goqu.I("b.renter_id"),
			goqu.I("b.property_id"),
			goqu.I("b.start_date"),
			goqu.I("b.end_date"),
			goqu.I("b.payment_mode"),
			goqu.I("b.total_cost"),
			goqu.I("b.created_at"),
			goqu.I("p.kind"),
		).
		InnerJoin(goqu.T("properties").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("b.property_id")))).
		Where(goqu.Ex{"b.renter_id": renterID}).
		Order(goqu.I("b.created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking := &entities.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.RenterID,
			&booking.PropertyID,
			&booking.StartDate,
			&booking.EndDate,
			&booking.PaymentMode,
			&booking.TotalCost,
			&booking.CreatedAt,
			&booking.PropertyKind,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}

	return bookings, nil
}

// CountByProperty returns the number of bookings referencing a property
func (a *BookingAdapter) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	query, args, err := dialect.From("bookings").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"property_id": propertyID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int64
	if err := a.exec.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count bookings", err)
	}
	return count, nil
}
