package client

import (
	"context"
	"sync"
)

// State is what a Session persists between runs.
type State struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Store persists session state. Load returns a nil State when nothing has
// been saved.
type Store interface {
	Load() (*State, error)
	Save(State) error
	Clear() error
}

// Session holds the signed-in user and token, keeps them in Store, and
// supplies the token to its Client. A 401 from any call clears it.
type Session struct {
	mu     sync.RWMutex
	client *Client
	store  Store
	token  string
	user   *User
}

// NewSession binds a session to c. store may be nil for an in-memory
// session.
func NewSession(c *Client, store Store) *Session {
	s := &Session{client: c, store: store}
	c.session = s
	return s
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.set(res.Token, res.User); err != nil {
		return nil, err
	}
	return s.User(), nil
}

func (s *Session) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	res, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.set(res.Token, res.User); err != nil {
		return nil, err
	}
	return s.User(), nil
}

// Logout forgets the user locally. Tokens are not revoked server-side.
func (s *Session) Logout() error {
	return s.clear()
}

// Restore loads the saved session and confirms it by fetching the profile.
// Any failure leaves the session cleared. It reports whether a user is
// signed in afterwards.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return s.IsAuthenticated(), nil
	}

	st, err := s.store.Load()
	if err != nil {
		return false, s.clear()
	}
	if st == nil || st.Token == "" || st.User == nil {
		return false, nil
	}

	s.mu.Lock()
	s.token, s.user = st.Token, st.User
	s.mu.Unlock()

	user, err := s.client.Profile(ctx)
	if err != nil {
		if cerr := s.clear(); cerr != nil {
			return false, cerr
		}
		return false, nil
	}
	return true, s.set(st.Token, user)
}

// UpdateUser applies fn to the signed-in user and persists the result. It
// does nothing when no user is signed in.
func (s *Session) UpdateUser(fn func(u *User)) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil
	}
	u := *s.user
	fn(&u)
	s.user = &u
	st := State{Token: s.token, User: &u}
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Save(st)
}

func (s *Session) set(token string, user *User) error {
	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Save(State{Token: token, User: user})
}

func (s *Session) clear() error {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}
