package ports

import (
	"context"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenManager issues and verifies identity tokens.
type TokenManager interface {
	Issue(userID, email string, role domain.Role) (string, error)
	// Verify fails with domain.ErrInvalidToken for every kind of bad token.
	Verify(token string) (domain.Identity, error)
}
