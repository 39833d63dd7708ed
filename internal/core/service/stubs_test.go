package service

import (
	"context"
	"sort"
	"strings"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	createErr error // if set, Create returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) put(u *domain.User) {
	r.byID[u.ID] = cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.put(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, ok := r.byID[id]
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
		id := *patch.CityID
		u.CityID = &id
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Role = role
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filters the real stores push down to the database.
func (r *stubUserRepo) List(_ context.Context, f domain.UserFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if !u.MatchesSearch(f.Search) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []*domain.User{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (r *stubUserRepo) Count(_ context.Context, f domain.UserCountFilter) (int64, error) {
	var n int64
	for _, u := range r.byID {
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

type stubCityRepo struct {
	byID      map[string]*domain.City
	users     map[string]int64 // city id -> assigned users
	deleteErr error            // if set, Delete returns this error
	deleted   []string
}

func newStubCityRepo() *stubCityRepo {
	return &stubCityRepo{
		byID:  make(map[string]*domain.City),
		users: make(map[string]int64),
	}
}

func (r *stubCityRepo) put(c *domain.City) {
	clone := *c
	r.byID[c.ID] = &clone
}

func (r *stubCityRepo) Create(_ context.Context, city *domain.City) error {
	for _, c := range r.byID {
		if c.Name == city.Name {
			return domain.ErrCityExists
		}
	}
	r.put(city)
	return nil
}

func (r *stubCityRepo) FindByID(_ context.Context, id string) (*domain.City, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCityNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCityRepo) FindByName(_ context.Context, name string) (*domain.City, error) {
	for _, c := range r.byID {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCityNotFound
}

func (r *stubCityRepo) ListActive(_ context.Context) ([]*domain.City, error) {
	var out []*domain.City
	for _, c := range r.byID {
		if c.IsActive {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Name, out[j].Name) < 0 })
	return out, nil
}

func (r *stubCityRepo) ListWithCounts(_ context.Context) ([]*domain.CityWithCount, error) {
	var out []*domain.CityWithCount
	for _, c := range r.byID {
		out = append(out, &domain.CityWithCount{City: *c, UserCount: r.users[c.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubCityRepo) Update(_ context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCityNotFound
	}
	patch.Apply(c)
	clone := *c
	return &clone, nil
}

func (r *stubCityRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCityNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubCityRepo) CountUsers(_ context.Context, id string) (int64, error) {
	return r.users[id], nil
}

// ---------------------------------------------------------------------------
// Security stubs
// ---------------------------------------------------------------------------

// stubHasher "hashes" by prefixing, which keeps tests fast.
type stubHasher struct {
	err error
}

func (h stubHasher) Hash(_ context.Context, plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h stubHasher) Compare(hash, plain string) bool {
	return hash == "hashed:"+plain
}

type stubTokens struct{}

func (stubTokens) Issue(userID, email string, role domain.Role) (string, error) {
	return "token:" + userID + ":" + string(role), nil
}

func (stubTokens) Verify(token string) (domain.Identity, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{UserID: parts[1], Role: domain.Role(parts[2])}, nil
}
