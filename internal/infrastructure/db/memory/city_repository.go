package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// CityRepository implements ports.CityRepository over a Store.
type CityRepository struct {
	s *Store
}

func (r *CityRepository) Create(_ context.Context, city *domain.City) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(city.Name, city.ID) {
		return domain.ErrCityExists
	}
	r.s.cities[city.ID] = *city
	return nil
}

func (r *CityRepository) FindByID(_ context.Context, id string) (*domain.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cities[id]
	if !ok {
		return nil, domain.ErrCityNotFound
	}
	return &c, nil
}

func (r *CityRepository) FindByName(_ context.Context, name string) (*domain.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.cities {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, domain.ErrCityNotFound
}

func (r *CityRepository) ListActive(_ context.Context) ([]*domain.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.City, 0, len(r.s.cities))
	for _, c := range r.s.cities {
		if c.IsActive {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CityRepository) ListWithCounts(_ context.Context) ([]*domain.CityWithCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.CityWithCount, 0, len(r.s.cities))
	for _, c := range r.s.cities {
		out = append(out, &domain.CityWithCount{City: c, UserCount: r.countUsers(c.ID)})
	}
	sortNewestFirst(out,
		func(c *domain.CityWithCount) time.Time { return c.CreatedAt },
		func(c *domain.CityWithCount) string { return c.ID })
	return out, nil
}

func (r *CityRepository) Update(_ context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.cities[id]
	if !ok {
		return nil, domain.ErrCityNotFound
	}
	if patch.Name != nil && r.nameTaken(*patch.Name, id) {
		return nil, domain.ErrCityExists
	}
	patch.Apply(&c)
	c.UpdatedAt = r.s.now().UTC()
	r.s.cities[id] = c
	return &c, nil
}

func (r *CityRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cities[id]; !ok {
		return domain.ErrCityNotFound
	}
	if r.countUsers(id) > 0 {
		return domain.ErrCityInUse
	}
	delete(r.s.cities, id)
	return nil
}

func (r *CityRepository) CountUsers(_ context.Context, id string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.countUsers(id), nil
}

func (r *CityRepository) countUsers(id string) int64 {
	var n int64
	for _, u := range r.s.users {
		if u.CityID != nil && *u.CityID == id {
			n++
		}
	}
	return n
}

func (r *CityRepository) nameTaken(name, selfID string) bool {
	for _, c := range r.s.cities {
		if c.Name == name && c.ID != selfID {
			return true
		}
	}
	return false
}
