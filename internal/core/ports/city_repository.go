package ports

import (
	"context"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// CityRepository defines persistence operations for service cities.
//
// A duplicate name is reported as domain.ErrCityExists. Delete returns
// domain.ErrCityInUse when users still reference the city.
type CityRepository interface {
	Create(ctx context.Context, city *domain.City) error
	FindByID(ctx context.Context, id string) (*domain.City, error)
	FindByName(ctx context.Context, name string) (*domain.City, error)
	// ListActive returns active cities ordered by name ascending.
	ListActive(ctx context.Context) ([]*domain.City, error)
	// ListWithCounts returns every city, newest first, with its user count.
	ListWithCounts(ctx context.Context) ([]*domain.CityWithCount, error)
	Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error)
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, id string) (int64, error)
}
