package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

const userColumns = `
	u.id, u.email, u.password, u.first_name, u.last_name, u.role, u.city_id,
	u.created_at, u.updated_at, c.name, c.state, c.price_per_kg`

const userFrom = `
	FROM users u
	LEFT JOIN cities c ON c.id = u.city_id`

// UserRepository implements ports.UserRepository on MySQL.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password, first_name, last_name, role, city_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), nullString(user.CityID), user.CreatedAt, user.UpdatedAt,
	)
	switch {
	case isDuplicate(err):
		return domain.ErrUserExists
	case isMissingReference(err):
		return domain.ErrCityUnavailable
	case err != nil:
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "u.id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "u.email = ?", email)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := "SELECT" + userColumns + userFrom + "\n\tWHERE " + where + "\n\tLIMIT 1"

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{r.now().UTC()}
	if patch.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *patch.FirstName)
	}
	if patch.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *patch.LastName)
	}
	if patch.CityID != nil {
		sets = append(sets, "city_id = ?")
		args = append(args, *patch.CityID)
	}
	args = append(args, id)

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isMissingReference(err) {
			return nil, domain.ErrCityUnavailable
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	query := `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, string(role), r.now().UTC(), id); err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, int64, error) {
	var (
		conds []string
		args  []any
	)
	if f.Role != "" {
		conds = append(conds, "u.role = ?")
		args = append(args, string(f.Role))
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		conds = append(conds, "(LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	where := ""
	if len(conds) > 0 {
		where = "\n\tWHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users u"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if f.Offset < 0 || int64(f.Offset) >= total {
		return []*domain.User{}, total, nil
	}

	query := "SELECT" + userColumns + userFrom + where + "\n\tORDER BY u.created_at DESC, u.id DESC\n\tLIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, f.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context, f domain.UserCountFilter) (int64, error) {
	var (
		conds []string
		args  []any
	)
	if f.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, string(f.Role))
	}
	if !f.CreatedSince.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.CreatedSince)
	}
	query := "SELECT COUNT(*) FROM users"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		cityID    sql.NullString
		cityName  sql.NullString
		cityState sql.NullString
		cityPrice decimal.NullDecimal
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &cityID,
		&u.CreatedAt, &u.UpdatedAt, &cityName, &cityState, &cityPrice,
	)
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)
	if cityID.Valid {
		id := cityID.String
		u.CityID = &id
		if cityName.Valid {
			u.City = &domain.CitySummary{
				ID:         id,
				Name:       cityName.String,
				State:      cityState.String,
				PricePerKg: cityPrice.Decimal,
			}
		}
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
