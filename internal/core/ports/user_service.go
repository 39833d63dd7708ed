package ports

import (
	"context"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// ListUsersInput carries the query parameters of the admin user listing.
type ListUsersInput struct {
	Page   int // 1-based
	Limit  int
	Role   string // ignored unless ADMIN or USER
	Search string
}

// Pagination is the page metadata returned alongside a user page.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalCount  int64
	HasNext     bool
	HasPrev     bool
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Users      []*domain.User
	Pagination Pagination
}

// UserStats is the admin dashboard overview.
type UserStats struct {
	TotalUsers   int64
	AdminUsers   int64
	RegularUsers int64
	RecentUsers  int64
}

// UserService defines the admin operations on user accounts.
type UserService interface {
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, actor domain.Identity, id string, role string) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
	Stats(ctx context.Context) (*UserStats, error)
}
