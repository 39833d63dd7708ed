package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Rates travel as JSON numbers (25.5), not strings ("25.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// Money is a non-negative amount with exact decimal arithmetic.
type Money = decimal.Decimal

// City is a service city with its per-kilogram shipping rate.
type City struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	State       string    `json:"state"`
	PricePerKg  Money     `json:"pricePerKg"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary projects the city into the form embedded in user records.
func (c *City) Summary() *CitySummary {
	return &CitySummary{
		ID:         c.ID,
		Name:       c.Name,
		State:      c.State,
		PricePerKg: c.PricePerKg,
	}
}

// CityWithCount pairs a city with the number of users assigned to it.
type CityWithCount struct {
	City
	UserCount int64 `json:"userCount"`
}

// CityPatch carries a partial city update. Nil fields are left unchanged;
// ClearDescription removes the description.
type CityPatch struct {
	Name             *string
	State            *string
	PricePerKg       *Money
	Description      *string
	ClearDescription bool
	IsActive         *bool
}

// Apply copies the set fields of p onto c.
func (p CityPatch) Apply(c *City) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.PricePerKg != nil {
		c.PricePerKg = *p.PricePerKg
	}
	if p.ClearDescription {
		c.Description = nil
	} else if p.Description != nil {
		c.Description = p.Description
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// DeleteOutcome tells how a city removal was carried out.
type DeleteOutcome string

const (
	CityDeleted     DeleteOutcome = "deleted"
	CityDeactivated DeleteOutcome = "deactivated"
)
