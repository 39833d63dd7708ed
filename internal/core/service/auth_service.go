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

// AuthService implements registration, login and self-service profile access.
type AuthService struct {
	users  ports.UserRepository
	cities ports.CityRepository
	hasher ports.PasswordHasher
	tokens ports.TokenManager
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	cities ports.CityRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		cities: cities,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a USER account bound to an active city and signs the
// caller in.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	city, err := s.activeCity(ctx, input.CityID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	cityID := city.ID
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
		CityID:       &cityID,
		City:         city.Summary(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("city_id", cityID).Msg("user registered")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials. An unknown email and a wrong password are
// reported with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	return s.users.FindByID(ctx, actor.UserID)
}

// UpdateProfile applies a partial update to the caller's own account. A new
// city must exist and be active.
func (s *AuthService) UpdateProfile(ctx context.Context, actor domain.Identity, patch domain.UserPatch) (*domain.User, error) {
	if patch.CityID != nil {
		if _, err := s.activeCity(ctx, *patch.CityID); err != nil {
			return nil, err
		}
	}
	if patch.Empty() {
		return s.users.FindByID(ctx, actor.UserID)
	}
	return s.users.Update(ctx, actor.UserID, patch)
}

func (s *AuthService) activeCity(ctx context.Context, id string) (*domain.City, error) {
	city, err := s.cities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCityNotFound) {
			return nil, domain.ErrCityUnavailable
		}
		return nil, err
	}
	if !city.IsActive {
		return nil, domain.ErrCityUnavailable
	}
	return city, nil
}
