package ports

import (
	"context"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.Register.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	CityID    string
}

// AuthResult is returned by successful registrations and logins.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, actor domain.Identity) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Identity, patch domain.UserPatch) (*domain.User, error)
}
