package mysql

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipsphere/logistics-api/internal/core/domain"
	"github.com/shipsphere/logistics-api/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

var userRowColumns = []string{
	"id", "email", "password", "first_name", "last_name", "role", "city_id",
	"created_at", "updated_at", "name", "state", "price_per_kg",
}

// setupUserTestRepository creates a user repository with a mock database
func setupUserTestRepository(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(db), mock
}

func TestUserRepository_Create(t *testing.T) {
	cityID := "c1"
	user := &domain.User{
		ID:           "u1",
		Email:        "a@x.io",
		PasswordHash: "hash",
		FirstName:    "A",
		LastName:     "B",
		Role:         domain.RoleUser,
		CityID:       &cityID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectedErr error
		wantErr     bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("u1", "a@x.io", "hash", "A", "B", "USER", "c1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate email",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.io' for key 'uq_users_email'"})
			},
			expectedErr: domain.ErrUserExists,
		},
		{
			name: "city vanished",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&mysqldrv.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
			},
			expectedErr: domain.ErrCityUnavailable,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserTestRepository(t)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), user)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.wantErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("with city", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)
		rows := sqlmock.NewRows(userRowColumns).
			AddRow("u1", "a@x.io", "hash", "A", "B", "USER", "c1", now, now, "Mumbai", "Maharashtra", "25.50")
		mock.ExpectQuery(`FROM users u\s+LEFT JOIN cities c ON c.id = u.city_id\s+WHERE u.id = \?`).
			WithArgs("u1").
			WillReturnRows(rows)

		user, err := repo.FindByID(context.Background(), "u1")
		require.NoError(t, err)
		require.NotNil(t, user.City)
		assert.Equal(t, "Mumbai", user.City.Name)
		assert.Equal(t, "25.5", user.City.PricePerKg.String())
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cityless admin", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)
		rows := sqlmock.NewRows(userRowColumns).
			AddRow("u0", "admin@x.io", "hash", "Admin", "User", "ADMIN", nil, now, now, nil, nil, nil)
		mock.ExpectQuery(`WHERE u.id = \?`).WithArgs("u0").WillReturnRows(rows)

		user, err := repo.FindByID(context.Background(), "u0")
		require.NoError(t, err)
		assert.Nil(t, user.City)
		assert.Nil(t, user.CityID)
		assert.True(t, user.IsAdmin())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)
		mock.ExpectQuery(`WHERE u.id = \?`).WithArgs("missing").WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	repo, mock := setupUserTestRepository(t)
	now := time.Now()
	pattern := `%50\%\_off%`

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users u`) + `\s+WHERE u.role = \? AND \(LOWER\(u.first_name\) LIKE \?`).
		WithArgs("USER", pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`ORDER BY u.created_at DESC, u.id DESC\s+LIMIT \? OFFSET \?`).
		WithArgs("USER", pattern, pattern, pattern, 5, 5).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u7", "g@x.io", "h", "G", "H", "USER", nil, now, now, nil, nil, nil))

	users, total, err := repo.List(context.Background(), domain.UserFilter{
		Role:   domain.RoleUser,
		Search: "50%_OFF",
		Offset: 5,
		Limit:  5,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, users, 1)
	assert.Equal(t, "u7", users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_PastTheEnd(t *testing.T) {
	repo, mock := setupUserTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users u`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	users, total, err := repo.List(context.Background(), domain.UserFilter{Offset: math.MaxInt, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Count(t *testing.T) {
	repo, mock := setupUserTestRepository(t)
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users WHERE role = ? AND created_at >= ?`)).
		WithArgs("ADMIN", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.Count(context.Background(), domain.UserCountFilter{Role: domain.RoleAdmin, CreatedSince: since})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole(t *testing.T) {
	repo, mock := setupUserTestRepository(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`)).
		WithArgs("ADMIN", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE u.id = \?`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "a@x.io", "h", "A", "B", "ADMIN", nil, now, now, nil, nil, nil))

	user, err := repo.UpdateRole(context.Background(), "u1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	repo, mock := setupUserTestRepository(t)
	now := time.Now()
	first, city := "Alice", "c2"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET updated_at = ?, first_name = ?, city_id = ? WHERE id = ?`)).
		WithArgs(sqlmock.AnyArg(), "Alice", "c2", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE u.id = \?`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "a@x.io", "h", "Alice", "B", "USER", "c2", now, now, "Pune", "Maharashtra", "26.75"))

	user, err := repo.Update(context.Background(), "u1", domain.UserPatch{FirstName: &first, CityID: &city})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Equal(t, "Pune", user.City.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := setupUserTestRepository(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1"), domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
