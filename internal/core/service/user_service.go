package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	recentUsersWindow = 30 * 24 * time.Hour
)

// UserService implements the admin operations on user accounts.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: time.Now}
}

// List returns one page of users, newest first. Out-of-range paging values
// fall back to the defaults and an unknown role filter is ignored.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := domain.UserFilter{
		Search: input.Search,
		Offset: pageOffset(page, limit),
		Limit:  limit,
	}
	if role, ok := domain.ParseRole(input.Role); ok {
		filter.Role = role
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListUsersResult{
		Users: users,
		Pagination: ports.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

// pageOffset is (page-1)*limit, saturating at math.MaxInt so a page far past
// the end yields an empty page instead of a negative offset.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateRole changes the role of a user. An administrator cannot take the
// ADMIN role away from themselves.
func (s *UserService) UpdateRole(ctx context.Context, actor domain.Identity, id string, role string) (*domain.User, error) {
	newRole, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if id == actor.UserID && newRole != domain.RoleAdmin {
		return nil, domain.ErrSelfDemotion
	}

	user, err := s.repo.UpdateRole(ctx, id, newRole)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Str("role", string(newRole)).Str("by", actor.UserID).Msg("user role updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.ErrSelfDeletion
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("by", actor.UserID).Msg("user deleted")
	return nil
}

// Stats counts users overall, per role, and those created in the last 30 days.
func (s *UserService) Stats(ctx context.Context) (*ports.UserStats, error) {
	var (
		stats ports.UserStats
		err   error
	)
	if stats.TotalUsers, err = s.repo.Count(ctx, domain.UserCountFilter{}); err != nil {
		return nil, err
	}
	if stats.AdminUsers, err = s.repo.Count(ctx, domain.UserCountFilter{Role: domain.RoleAdmin}); err != nil {
		return nil, err
	}
	if stats.RegularUsers, err = s.repo.Count(ctx, domain.UserCountFilter{Role: domain.RoleUser}); err != nil {
		return nil, err
	}
	since := s.now().UTC().Add(-recentUsersWindow)
	if stats.RecentUsers, err = s.repo.Count(ctx, domain.UserCountFilter{CreatedSince: since}); err != nil {
		return nil, err
	}
	return &stats, nil
}
