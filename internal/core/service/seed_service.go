package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

// SampleCities is the catalogue installed by a fresh seed.
var SampleCities = []ports.CreateCityInput{
	sampleCity("Mumbai", "Maharashtra", "25.50", "Financial capital of India"),
	sampleCity("Delhi", "Delhi", "28.00", "Capital city of India"),
	sampleCity("Bangalore", "Karnataka", "22.75", "IT hub of India"),
	sampleCity("Chennai", "Tamil Nadu", "24.25", "Gateway to South India"),
	sampleCity("Kolkata", "West Bengal", "23.50", "Cultural capital of India"),
	sampleCity("Hyderabad", "Telangana", "21.00", "City of Nizams"),
	sampleCity("Pune", "Maharashtra", "26.75", "Oxford of the East"),
	sampleCity("Ahmedabad", "Gujarat", "20.50", "Commercial hub of Gujarat"),
	sampleCity("Jaipur", "Rajasthan", "19.25", "Pink city of India"),
	sampleCity("Surat", "Gujarat", "18.75", "Diamond city of India"),
}

func sampleCity(name, state, price, description string) ports.CreateCityInput {
	return ports.CreateCityInput{
		Name:        name,
		State:       state,
		PricePerKg:  decimal.RequireFromString(price),
		Description: &description,
	}
}

// SeedResult reports what a seed run created.
type SeedResult struct {
	AdminCreated  bool
	CitiesCreated int
	CitiesSkipped int
}

// Seeder installs the bootstrap administrator and the sample cities. Running
// it again leaves existing records untouched.
type Seeder struct {
	users  ports.UserRepository
	cities *CityService
	hasher ports.PasswordHasher
	logger zerolog.Logger
	now    func() time.Time
}

func NewSeeder(users ports.UserRepository, cities *CityService, hasher ports.PasswordHasher, logger zerolog.Logger) *Seeder {
	return &Seeder{users: users, cities: cities, hasher: hasher, logger: logger, now: time.Now}
}

func (s *Seeder) Seed(ctx context.Context, adminEmail, adminPassword string, cities []ports.CreateCityInput) (*SeedResult, error) {
	var res SeedResult

	created, err := s.seedAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return nil, err
	}
	res.AdminCreated = created

	for _, in := range cities {
		city, err := s.cities.Create(ctx, in)
		switch {
		case errors.Is(err, domain.ErrCityExists):
			res.CitiesSkipped++
			s.logger.Info().Str("name", in.Name).Msg("city already exists")
		case err != nil:
			return nil, err
		default:
			res.CitiesCreated++
			s.logger.Info().Str("name", city.Name).Str("state", city.State).Str("price_per_kg", city.PricePerKg.StringFixed(2)).Msg("city seeded")
		}
	}
	return &res, nil
}

func (s *Seeder) seedAdmin(ctx context.Context, email, password string) (bool, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		s.logger.Info().Str("email", email).Msg("admin user already exists")
		return false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return false, err
	}

	now := s.now().UTC()
	admin := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	s.logger.Info().Str("email", email).Msg("admin user created")
	return true, nil
}
