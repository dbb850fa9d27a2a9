package entities

import (
	"time"
)

// Rewards is a renter's accumulated point balance. The record is created
// lazily on first booking and the balance never goes below zero.
type Rewards struct {
	RenterID  string    `json:"renter_id" db:"renter_id"`
	Points    int       `json:"points" db:"points"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
