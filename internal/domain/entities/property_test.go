package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), "kind %s should be valid", k)
	}

	assert.False(t, PropertyKind("castle").Valid())
	assert.False(t, PropertyKind("").Valid())
}

func TestPropertyDetails_KindDispatch(t *testing.T) {
	cases := []struct {
		details PropertyDetails
		kind    PropertyKind
	}{
		{VacationHomeDetails{}, KindVacationHome},
		{HouseDetails{}, KindHouse},
		{ApartmentDetails{}, KindApartment},
		{CommercialBuildingDetails{}, KindCommercialBuilding},
	}

	for _, c := range cases {
		assert.Equal(t, c.kind, c.details.Kind())
	}
}

func TestResidentialUnit_Accessors(t *testing.T) {
	d := HouseDetails{ResidentialUnit{
		Rooms:     4,
		Address:   "12 Elm Street",
		AreaSqFt:  1800,
		Price:     250000,
		Available: true,
	}}

	assert.Equal(t, 250000.0, d.ListPrice())
	assert.True(t, d.IsAvailable())
}

func TestCommercialBuildingDetails_Accessors(t *testing.T) {
	d := CommercialBuildingDetails{
		Address:      "500 Market Ave",
		BusinessType: "retail",
		AreaSqFt:     12000,
		Price:        1200000,
		Available:    false,
	}

	assert.Equal(t, 1200000.0, d.ListPrice())
	assert.False(t, d.IsAvailable())
}

func TestPaymentMode_Valid(t *testing.T) {
	assert.True(t, PaymentModeCash.Valid())
	assert.True(t, PaymentModeCredit.Valid())
	assert.False(t, PaymentMode("cheque").Valid())
}
