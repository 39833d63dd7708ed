package domain

import (
	"strings"
	"time"
)

// Role is the coarse access tier of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole accepts only the two enumerated role values, case-sensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// CitySummary is the slice of a city embedded in user responses.
type CitySummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state"`
	PricePerKg Money  `json:"pricePerKg"`
}

// User models an account of the back office.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Role         Role         `json:"role"`
	CityID       *string      `json:"-"`
	City         *CitySummary `json:"city"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPatch carries a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	FirstName *string
	LastName  *string
	CityID    *string
}

func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.CityID == nil
}

// UserFilter selects users for the admin listing.
type UserFilter struct {
	Role   Role   // empty = any role
	Search string // case-insensitive substring over first name, last name, email
	Offset int
	Limit  int
}

// MatchesSearch applies the admin search rule to a single user. Stores that
// cannot push the filter down to the database use it directly.
func (u *User) MatchesSearch(search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.FirstName), needle) ||
		strings.Contains(strings.ToLower(u.LastName), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle)
}

// UserCountFilter narrows a user count. Zero values mean "no constraint".
type UserCountFilter struct {
	Role         Role
	CreatedSince time.Time
}
