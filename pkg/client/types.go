package client

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Roles accepted by UpdateUserRole.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type CitySummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	State      string          `json:"state"`
	PricePerKg decimal.Decimal `json:"pricePerKg"`
}

type User struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Role      string       `json:"role"`
	City      *CitySummary `json:"city"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// City is a service city. The public listing fills only ID, Name, State,
// PricePerKg and Description.
type City struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	State       string          `json:"state"`
	PricePerKg  decimal.Decimal `json:"pricePerKg"`
	Description *string         `json:"description"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CityWithCount struct {
	City
	UserCount int64 `json:"userCount"`
}

type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CityID    string `json:"cityId"`
}

// ProfileUpdate is a partial profile change; nil fields are not sent.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	CityID    *string `json:"cityId,omitempty"`
}

type CityInput struct {
	Name        string          `json:"name"`
	State       string          `json:"state"`
	PricePerKg  decimal.Decimal `json:"pricePerKg"`
	Description *string         `json:"description,omitempty"`
}

// CityUpdate is a partial city change; nil fields are not sent.
type CityUpdate struct {
	Name        *string          `json:"name,omitempty"`
	State       *string          `json:"state,omitempty"`
	PricePerKg  *decimal.Decimal `json:"pricePerKg,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`

	// ClearDescription sends an explicit null, removing the description.
	ClearDescription bool `json:"-"`
}

func (u CityUpdate) MarshalJSON() ([]byte, error) {
	type plain CityUpdate
	if !u.ClearDescription {
		return json.Marshal(plain(u))
	}
	return json.Marshal(struct {
		plain
		Description *string `json:"description"`
	}{plain: plain(u)})
}

// ListUsersParams filters the admin user listing. Zero values are omitted.
type ListUsersParams struct {
	Page   int
	Limit  int
	Role   string
	Search string
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type UserPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

type UserStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	AdminUsers   int64 `json:"adminUsers"`
	RegularUsers int64 `json:"regularUsers"`
	RecentUsers  int64 `json:"recentUsers"`
}

// FieldError is one failing input field reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
