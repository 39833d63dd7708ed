// Package memory is a process-local store used for development and tests
// (STORE_DRIVER=memory). It enforces the same uniqueness and referential
// rules as the database-backed stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// Store holds users and cities behind a single lock.
type Store struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	cities map[string]domain.City
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]domain.User),
		cities: make(map[string]domain.City),
		now:    time.Now,
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Cities() *CityRepository { return &CityRepository{s: s} }

// Ping always succeeds; it lets the store satisfy the health checker.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

// withCity returns a copy of u with its city summary resolved. Callers hold
// at least the read lock.
func (s *Store) withCity(u domain.User) *domain.User {
	if u.CityID != nil {
		if c, ok := s.cities[*u.CityID]; ok {
			u.City = c.Summary()
		}
		id := *u.CityID
		u.CityID = &id
	} else {
		u.City = nil
	}
	return &u
}

func sortNewestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci.Equal(cj) {
			return id(items[i]) > id(items[j])
		}
		return ci.After(cj)
	})
}
