package entities

import (
	"time"
)

// UserRole distinguishes renters from agents
type UserRole string

const (
	RoleRenter UserRole = "renter"
	RoleAgent  UserRole = "agent"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == RoleRenter || r == RoleAgent
}

// User is the base account record. Email is the natural key joining it to
// the role-specific record.
type User struct {
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Name      string    `json:"name" db:"name" validate:"required"`
	Address   string    `json:"address" db:"address" validate:"required"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Renter extends a base user with an opaque renter identifier
type Renter struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
}

// Agent extends a base user with an opaque agent identifier plus agency details
type Agent struct {
	ID         string `json:"id" db:"id"`
	Email      string `json:"email" db:"email"`
	JobTitle   string `json:"job_title" db:"job_title"`
	AgencyName string `json:"agency_name" db:"agency_name"`
}
