package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property occupancy states.
const (
	PropertyVacant      = "vacant"
	PropertyOccupied    = "occupied"
	PropertyMaintenance = "maintenance"
)

// Property represents a row in the `properties` table. Every property is
// owned by exactly one account; all reads and writes are scoped by
// AccountID. Utility account numbers (DEWA-style electricity/water) are
// optional and participate in duplicate detection together with the name.
type Property struct {
	ID                uint64              `json:"id"`
	AccountID         uint64              `json:"-"`
	Name              string              `json:"name"`
	Address           string              `json:"address"`
	Type              string              `json:"type"`
	Bedrooms          *int                `json:"bedrooms"`
	Bathrooms         *int                `json:"bathrooms"`
	AreaSqm           decimal.NullDecimal `json:"area_sqm"`
	MonthlyRent       decimal.NullDecimal `json:"monthly_rent"`
	Currency          string              `json:"currency"`
	Status            string              `json:"status"`
	ElectricityNumber *string             `json:"electricity_number"`
	WaterNumber       *string             `json:"water_number"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ValidPropertyStatus reports whether s is one of the known occupancy states.
func ValidPropertyStatus(s string) bool {
	switch s {
	case PropertyVacant, PropertyOccupied, PropertyMaintenance:
		return true
	}
	return false
}
