package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Role         string    `bson:"role"`
	CityID       *string   `bson:"city_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`

	// Populated by the $lookup stage only.
	City *cityDoc `bson:"city,omitempty"`
}

type cityDoc struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	State       string               `bson:"state"`
	PricePerKg  primitive.Decimal128 `bson:"price_per_kg"`
	Description *string              `bson:"description,omitempty"`
	IsActive    bool                 `bson:"is_active"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`

	// Populated by the counting aggregation only.
	UserCount int64 `bson:"user_count,omitempty"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		CityID:       u.CityID,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         domain.Role(d.Role),
		CityID:       d.CityID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.City != nil {
		u.City = d.City.toDomain().Summary()
	}
	return u
}

func toCityDoc(c *domain.City) (cityDoc, error) {
	price, err := toDecimal128(c.PricePerKg)
	if err != nil {
		return cityDoc{}, err
	}
	return cityDoc{
		ID:          c.ID,
		Name:        c.Name,
		State:       c.State,
		PricePerKg:  price,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}, nil
}

func (d cityDoc) toDomain() *domain.City {
	price, err := decimal.NewFromString(d.PricePerKg.String())
	if err != nil {
		price = decimal.Zero
	}
	return &domain.City{
		ID:          d.ID,
		Name:        d.Name,
		State:       d.State,
		PricePerKg:  price,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert price %s: %w", d, err)
	}
	return v, nil
}
