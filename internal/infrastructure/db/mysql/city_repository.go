package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

const cityColumns = `id, name, state, price_per_kg, description, is_active, created_at, updated_at`

// CityRepository implements ports.CityRepository on MySQL.
type CityRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCityRepository(db *sql.DB) *CityRepository {
	return &CityRepository{db: db, now: time.Now}
}

func (r *CityRepository) Create(ctx context.Context, city *domain.City) error {
	query := `
		INSERT INTO cities (id, name, state, price_per_kg, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		city.ID, city.Name, city.State, city.PricePerKg, nullString(city.Description),
		city.IsActive, city.CreatedAt, city.UpdatedAt,
	)
	if isDuplicate(err) {
		return domain.ErrCityExists
	}
	if err != nil {
		return fmt.Errorf("insert city: %w", err)
	}
	return nil
}

func (r *CityRepository) FindByID(ctx context.Context, id string) (*domain.City, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CityRepository) FindByName(ctx context.Context, name string) (*domain.City, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *CityRepository) findOne(ctx context.Context, where string, arg any) (*domain.City, error) {
	query := "SELECT " + cityColumns + " FROM cities WHERE " + where + " LIMIT 1"

	city, err := scanCity(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find city: %w", err)
	}
	return city, nil
}

func (r *CityRepository) ListActive(ctx context.Context) ([]*domain.City, error) {
	query := "SELECT " + cityColumns + " FROM cities WHERE is_active = 1 ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	cities := make([]*domain.City, 0)
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

func (r *CityRepository) ListWithCounts(ctx context.Context) ([]*domain.CityWithCount, error) {
	query := `
		SELECT c.id, c.name, c.state, c.price_per_kg, c.description, c.is_active, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM users u WHERE u.city_id = c.id) AS user_count
		FROM cities c
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	cities := make([]*domain.CityWithCount, 0)
	for rows.Next() {
		var (
			c    domain.CityWithCount
			desc sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.State, &c.PricePerKg, &desc, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.UserCount); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		c.Description = stringPtr(desc)
		cities = append(cities, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

func (r *CityRepository) Update(ctx context.Context, id string, patch domain.CityPatch) (*domain.City, error) {
	sets := []string{"updated_at = ?"}
	args := []any{r.now().UTC()}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.State != nil {
		sets = append(sets, "state = ?")
		args = append(args, *patch.State)
	}
	if patch.PricePerKg != nil {
		sets = append(sets, "price_per_kg = ?")
		args = append(args, *patch.PricePerKg)
	}
	if patch.ClearDescription {
		sets = append(sets, "description = NULL")
	} else if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}
	args = append(args, id)

	query := "UPDATE cities SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrCityExists
		}
		return nil, fmt.Errorf("update city: %w", err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes the row. The foreign key from users makes MySQL refuse the
// delete while any user still references the city.
func (r *CityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cities WHERE id = ?`, id)
	if isReferenced(err) {
		return domain.ErrCityInUse
	}
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	if n == 0 {
		return domain.ErrCityNotFound
	}
	return nil
}

func (r *CityRepository) CountUsers(ctx context.Context, id string) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE city_id = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count city users: %w", err)
	}
	return n, nil
}

func scanCity(row rowScanner) (*domain.City, error) {
	var (
		c    domain.City
		desc sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.State, &c.PricePerKg, &desc, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Description = stringPtr(desc)
	return &c, nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
