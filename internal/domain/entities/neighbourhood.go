package entities

import (
	"time"
)

// Neighbourhood holds per-property environmental metadata. One record exists
// per property; it is created, updated, and deleted together with its listing.
type Neighbourhood struct {
	PropertyID string    `json:"property_id" db:"property_id"`
	CrimeRate  float64   `json:"crime_rate" db:"crime_rate" validate:"gte=0,lt=99.99"`
	School     string    `json:"school" db:"school"`
	Hospital   string    `json:"hospital" db:"hospital"`
	Park       string    `json:"park" db:"park"`
	Mart       string    `json:"mart" db:"mart"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
