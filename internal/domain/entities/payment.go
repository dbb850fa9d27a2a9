package entities

import (
	"time"
)

// CardDetails is the payment instrument supplied with a credit booking.
// The number must be exactly sixteen numeric digits.
type CardDetails struct {
	HolderName string    `json:"holder_name" validate:"required"`
	Number     string    `json:"number" validate:"len=16,numeric"`
	Expiry     time.Time `json:"expiry" validate:"required"`
	CVV        string    `json:"cvv" validate:"required"`
}

// PaymentRecord is a captured payment instrument for a credit booking. The
// store is append-only: records are never updated and survive cancellation
// of the booking they were captured for.
type PaymentRecord struct {
	ID         string    `json:"id" db:"id"`
	RenterID   string    `json:"renter_id" db:"renter_id"`
	BookingID  string    `json:"booking_id" db:"booking_id"`
	CardHolder string    `json:"card_holder" db:"card_holder"`
	CardNumber string    `json:"card_number" db:"card_number"`
	Expiry     time.Time `json:"expiry" db:"expiry"`
	CVV        string    `json:"cvv" db:"cvv"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
