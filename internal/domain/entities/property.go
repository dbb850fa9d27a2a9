package entities

import (
	"time"
)

// PropertyKind tags the four mutually exclusive property shapes
type PropertyKind string

const (
	KindVacationHome       PropertyKind = "vacation_home"
	KindHouse              PropertyKind = "house"
	KindApartment          PropertyKind = "apartment"
	KindCommercialBuilding PropertyKind = "commercial_building"
)

// Valid reports whether k is one of the four known kinds
func (k PropertyKind) Valid() bool {
	switch k {
	case KindVacationHome, KindHouse, KindApartment, KindCommercialBuilding:
		return true
	}
	return false
}

// Kinds lists every property kind, in catalog order
func Kinds() []PropertyKind {
	return []PropertyKind{KindVacationHome, KindHouse, KindApartment, KindCommercialBuilding}
}

// PropertyDetails is the per-kind record attached to a property. Exactly one
// variant exists per property, with the same identifier as the base row; a
// property without its details record is invalid. The availability flag on
// the details is the single source of truth for bookability.
type PropertyDetails interface {
	Kind() PropertyKind
	ListPrice() float64
	IsAvailable() bool
}

// ResidentialUnit holds the fields shared by the three residential kinds
type ResidentialUnit struct {
	Rooms     int     `json:"rooms" db:"rooms" validate:"gte=1"`
	Address   string  `json:"address" db:"address"`
	AreaSqFt  float64 `json:"area_sqft" db:"area_sqft" validate:"gte=0"`
	Price     float64 `json:"price" db:"price" validate:"gte=0"`
	Available bool    `json:"available" db:"available"`
}

// ListPrice returns the current asking price
func (u ResidentialUnit) ListPrice() float64 { return u.Price }

// IsAvailable reports whether the unit is currently bookable
func (u ResidentialUnit) IsAvailable() bool { return u.Available }

// VacationHomeDetails is the subtype record for vacation homes
type VacationHomeDetails struct {
	ResidentialUnit
}

func (VacationHomeDetails) Kind() PropertyKind { return KindVacationHome }

// HouseDetails is the subtype record for houses
type HouseDetails struct {
	ResidentialUnit
}

func (HouseDetails) Kind() PropertyKind { return KindHouse }

// ApartmentDetails is the subtype record for apartments
type ApartmentDetails struct {
	ResidentialUnit
	BuildingType string `json:"building_type" db:"building_type"`
}

func (ApartmentDetails) Kind() PropertyKind { return KindApartment }

// CommercialBuildingDetails is the subtype record for commercial buildings.
// Commercial buildings carry a business type instead of a room count.
type CommercialBuildingDetails struct {
	Address      string  `json:"address" db:"address"`
	BusinessType string  `json:"business_type" db:"business_type"`
	AreaSqFt     float64 `json:"area_sqft" db:"area_sqft" validate:"gte=0"`
	Price        float64 `json:"price" db:"price" validate:"gte=0"`
	Available    bool    `json:"available" db:"available"`
}

func (CommercialBuildingDetails) Kind() PropertyKind { return KindCommercialBuilding }

// ListPrice returns the current asking price
func (d CommercialBuildingDetails) ListPrice() float64 { return d.Price }

// IsAvailable reports whether the building is currently bookable
func (d CommercialBuildingDetails) IsAvailable() bool { return d.Available }

// Property is a catalog listing. The identifier is a ten digit, zero padded
// numeric string allocated monotonically; Kind must match Details.Kind().
type Property struct {
	ID          string          `json:"id" db:"id"`
	Kind        PropertyKind    `json:"kind" db:"kind"`
	Description string          `json:"description" db:"description"`
	City        string          `json:"city" db:"city"`
	State       string          `json:"state" db:"state"`
	AgentID     string          `json:"agent_id" db:"agent_id"`
	Details     PropertyDetails `json:"details" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ListingSummary is a denormalized search result row: base listing fields
// joined with price, availability, and the owning agent's display name.
type ListingSummary struct {
	ID          string       `json:"id" db:"id"`
	Kind        PropertyKind `json:"kind" db:"kind"`
	Description string       `json:"description" db:"description"`
	City        string       `json:"city" db:"city"`
	State       string       `json:"state" db:"state"`
	Price       float64      `json:"price" db:"price"`
	Available   bool         `json:"available" db:"available"`
	AgentID     string       `json:"agent_id" db:"agent_id"`
	AgentName   string       `json:"agent_name" db:"agent_name"`
}
