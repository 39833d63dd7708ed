package handler

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email"     validate:"required,email" msg:"Please provide a valid email"`
	Password  string `json:"password"  validate:"min=6,maxbytes=72" msg:"Password must be at least 6 characters" msg_maxbytes:"Password must be at most 72 bytes long"`
	FirstName string `json:"firstName" validate:"required"       msg:"First name is required"`
	LastName  string `json:"lastName"  validate:"required"       msg:"Last name is required"`
	CityID    string `json:"cityId"    validate:"required"       msg:"City selection is required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email" msg:"Please provide a valid email"`
	Password string `json:"password" validate:"required"       msg:"Password is required"`
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1" msg:"First name cannot be empty"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1" msg:"Last name cannot be empty"`
	CityID    *string `json:"cityId"    validate:"omitempty,min=1" msg:"City ID cannot be empty"`
}

type authData struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type userData struct {
	User *domain.User `json:"user"`
}

// --- Cities ---

type createCityRequest struct {
	Name        string           `json:"name"        validate:"required"       msg:"City name is required"`
	State       string           `json:"state"       validate:"required"       msg:"State is required"`
	PricePerKg  *decimal.Decimal `json:"pricePerKg"  validate:"required,gte=0" msg:"Price per kg must be a positive number"`
	Description *string          `json:"description" msg:"Description must be a string"`
}

type updateCityRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1" msg:"City name cannot be empty"`
	State       *string          `json:"state"       validate:"omitempty,min=1" msg:"State cannot be empty"`
	PricePerKg  *decimal.Decimal `json:"pricePerKg"  validate:"omitempty,gte=0" msg:"Price per kg must be a positive number"`
	Description nullableString   `json:"description" msg:"Description must be a string" swaggertype:"string"`
	IsActive    *bool            `json:"isActive"    msg:"isActive must be a boolean"`
}

func (r updateCityRequest) patch() domain.CityPatch {
	return domain.CityPatch{
		Name:             r.Name,
		State:            r.State,
		PricePerKg:       r.PricePerKg,
		Description:      r.Description.Value,
		ClearDescription: r.Description.Set && r.Description.Value == nil,
		IsActive:         r.IsActive,
	}
}

// nullableString tells an absent field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// publicCity is the projection served by the public city list.
type publicCity struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	State       string       `json:"state"`
	PricePerKg  domain.Money `json:"pricePerKg"`
	Description *string      `json:"description"`
}

func toPublicCities(cities []*domain.City) []publicCity {
	out := make([]publicCity, 0, len(cities))
	for _, c := range cities {
		out = append(out, publicCity{
			ID:          c.ID,
			Name:        c.Name,
			State:       c.State,
			PricePerKg:  c.PricePerKg,
			Description: c.Description,
		})
	}
	return out
}

type publicCitiesData struct {
	Cities []publicCity `json:"cities"`
}

type citiesWithCountData struct {
	Cities []*domain.CityWithCount `json:"cities"`
}

type cityData struct {
	City any `json:"city"`
}

// --- Users ---

type updateRoleRequest struct {
	Role string `json:"role"`
}

type paginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type usersData struct {
	Users      []*domain.User     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

func toUsersData(res *ports.ListUsersResult) usersData {
	users := res.Users
	if users == nil {
		users = []*domain.User{}
	}
	p := res.Pagination
	return usersData{
		Users: users,
		Pagination: paginationResponse{
			CurrentPage: p.CurrentPage,
			TotalPages:  p.TotalPages,
			TotalCount:  p.TotalCount,
			HasNext:     p.HasNext,
			HasPrev:     p.HasPrev,
		},
	}
}

type statsResponse struct {
	TotalUsers   int64 `json:"totalUsers"`
	AdminUsers   int64 `json:"adminUsers"`
	RegularUsers int64 `json:"regularUsers"`
	RecentUsers  int64 `json:"recentUsers"`
}

type statsData struct {
	Stats statsResponse `json:"stats"`
}
