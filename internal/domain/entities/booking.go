package entities

import (
	"time"
)

// PaymentMode is how a booking is paid for
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeCredit PaymentMode = "credit"
)

// Valid reports whether m is a known payment mode
func (m PaymentMode) Valid() bool {
	return m == PaymentModeCash || m == PaymentModeCredit
}

// Booking links a renter to a property for a fixed date window. TotalCost is
// the property's price captured at booking time and never changes afterwards.
// Bookings are created and deleted, never updated in place.
type Booking struct {
	ID          string      `json:"id" db:"id"`
	RenterID    string      `json:"renter_id" db:"renter_id"`
	PropertyID  string      `json:"property_id" db:"property_id"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	PaymentMode PaymentMode `json:"payment_mode" db:"payment_mode"`
	TotalCost   float64     `json:"total_cost" db:"total_cost"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`

	// PropertyKind is denormalized from the property at read time, not stored.
	PropertyKind PropertyKind `json:"property_kind" db:"-"`
}
