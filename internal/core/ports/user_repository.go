package ports

import (
	"context"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Implementations populate User.City with the assigned city's summary and
// report a duplicate email as domain.ErrUserExists, including when the
// duplicate is detected by the store's unique constraint.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of users, newest first, and the total match count.
	List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, int64, error)
	Count(ctx context.Context, filter domain.UserCountFilter) (int64, error)
}
