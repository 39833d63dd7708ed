package security

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the documented work factor for stored passwords.
const DefaultBcryptCost = 12

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash runs bcrypt on its own goroutine so a cancelled request does not wait
// for the hash to finish.
func (h *BcryptHasher) Hash(ctx context.Context, plain string) (string, error) {
	type result struct {
		hash []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
		done <- result{hash: hash, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("hash password: %w", r.err)
		}
		return string(r.hash), nil
	}
}

func (h *BcryptHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
