package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

// CityService implements the catalogue of service cities.
type CityService struct {
	repo   ports.CityRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCityService(repo ports.CityRepository, logger zerolog.Logger) *CityService {
	return &CityService{repo: repo, logger: logger, now: time.Now}
}

func (s *CityService) ListActive(ctx context.Context) ([]*domain.City, error) {
	return s.repo.ListActive(ctx)
}

func (s *CityService) ListAll(ctx context.Context) ([]*domain.CityWithCount, error) {
	return s.repo.ListWithCounts(ctx)
}

// Get returns the city whether it is active or not.
func (s *CityService) Get(ctx context.Context, id string) (*domain.CityWithCount, error) {
	city, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.CityWithCount{City: *city, UserCount: count}, nil
}

func (s *CityService) Create(ctx context.Context, input ports.CreateCityInput) (*domain.City, error) {
	if input.PricePerKg.IsNegative() {
		return nil, domain.NewValidationError("pricePerKg", "Price per kg must be a positive number")
	}
	if err := s.ensureNameFree(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	city := &domain.City{
		ID:          uuid.NewString(),
		Name:        input.Name,
		State:       input.State,
		PricePerKg:  input.PricePerKg,
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, city); err != nil {
		return nil, err
	}

	s.logger.Info().Str("city_id", city.ID).Str("name", city.Name).Msg("city created")
	return city, nil
}

// Update applies a partial update. Renaming re-checks name uniqueness.
func (s *CityService) Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	if patch.PricePerKg != nil && patch.PricePerKg.IsNegative() {
		return nil, domain.NewValidationError("pricePerKg", "Price per kg must be a positive number")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name != current.Name {
		if err := s.ensureNameFree(ctx, *patch.Name, id); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a city nobody uses, or deactivates it when at least one user
// is still assigned to it.
func (s *CityService) Delete(ctx context.Context, id string) (domain.DeleteOutcome, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return "", err
	}

	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return s.deactivate(ctx, id, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCityInUse) {
			// A user was assigned between the count and the delete.
			return s.deactivate(ctx, id, count)
		}
		return "", err
	}

	s.logger.Info().Str("city_id", id).Msg("city deleted")
	return domain.CityDeleted, nil
}

func (s *CityService) deactivate(ctx context.Context, id string, users int64) (domain.DeleteOutcome, error) {
	inactive := false
	if _, err := s.repo.Update(ctx, id, domain.CityPatch{IsActive: &inactive}); err != nil {
		return "", err
	}
	s.logger.Info().Str("city_id", id).Int64("users", users).Msg("city deactivated")
	return domain.CityDeactivated, nil
}

func (s *CityService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrCityNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrCityExists
	}
	return nil
}
