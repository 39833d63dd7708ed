package memory

import (
	"context"
	"time"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository over a Store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	if user.CityID != nil {
		if _, ok := r.s.cities[*user.CityID]; !ok {
			return domain.ErrCityUnavailable
		}
	}

	stored := *user
	stored.City = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.s.withCity(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return r.s.withCity(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.CityID != nil {
		if _, ok := r.s.cities[*patch.CityID]; !ok {
			return nil, domain.ErrCityUnavailable
		}
		cityID := *patch.CityID
		u.CityID = &cityID
	}
	u.UpdatedAt = r.s.now().UTC()
	r.s.users[id] = u
	return r.s.withCity(u), nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = r.s.now().UTC()
	r.s.users[id] = u
	return r.s.withCity(u), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, f domain.UserFilter) ([]*domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*domain.User, 0)
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !u.MatchesSearch(f.Search) {
			continue
		}
		matched = append(matched, r.s.withCity(u))
	}
	sortNewestFirst(matched,
		func(u *domain.User) time.Time { return u.CreatedAt },
		func(u *domain.User) string { return u.ID })

	total := int64(len(matched))
	if f.Offset < 0 || f.Offset >= len(matched) {
		return []*domain.User{}, total, nil
	}
	end := len(matched)
	if f.Limit > 0 && f.Limit < end-f.Offset {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func (r *UserRepository) Count(_ context.Context, f domain.UserCountFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !f.CreatedSince.IsZero() && u.CreatedAt.Before(f.CreatedSince) {
			continue
		}
		n++
	}
	return n, nil
}
