// Package mysql is the relational store (STORE_DRIVER=mysql), the default
// persistence for users and cities.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
)

const defaultTimeout = 10 * time.Second

// MySQL server error numbers the repositories translate into domain errors.
const (
	errDuplicateEntry   = 1062
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errRowIsReferenced2 = 1217
)

// Config captures the settings for establishing a MySQL connection pool.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a pool and verifies connectivity with a ping. A default
// timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

// Store bundles the repositories sharing one pool.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() *UserRepository { return NewUserRepository(s.db) }

func (s *Store) Cities() *CityRepository { return NewCityRepository(s.db) }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func errorNumber(err error) uint16 {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

func isDuplicate(err error) bool {
	return errorNumber(err) == errDuplicateEntry
}

func isReferenced(err error) bool {
	n := errorNumber(err)
	return n == errRowIsReferenced || n == errRowIsReferenced2
}

func isMissingReference(err error) bool {
	return errorNumber(err) == errNoReferencedRow
}
