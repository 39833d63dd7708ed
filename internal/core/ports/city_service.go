package ports

import (
	"context"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// CreateCityInput carries the fields of a new city.
type CreateCityInput struct {
	Name        string
	State       string
	PricePerKg  domain.Money
	Description *string
}

// CityService defines use-case operations for service cities.
type CityService interface {
	ListActive(ctx context.Context) ([]*domain.City, error)
	ListAll(ctx context.Context) ([]*domain.CityWithCount, error)
	Get(ctx context.Context, id string) (*domain.CityWithCount, error)
	Create(ctx context.Context, input CreateCityInput) (*domain.City, error)
	Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error)
	Delete(ctx context.Context, id string) (domain.DeleteOutcome, error)
}
