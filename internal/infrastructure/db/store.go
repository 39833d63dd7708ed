// Package db selects and opens the persistence backend named by
// STORE_DRIVER.
package db

import (
	"context"
	"fmt"

	"github.com/shipsphere/logistics-api/internal/core/ports"
	"github.com/shipsphere/logistics-api/internal/infrastructure/config"
	"github.com/shipsphere/logistics-api/internal/infrastructure/db/memory"
	"github.com/shipsphere/logistics-api/internal/infrastructure/db/mongo"
	"github.com/shipsphere/logistics-api/internal/infrastructure/db/mysql"
)

// Backend is an opened store with its repositories.
type Backend struct {
	Name   string
	Users  ports.UserRepository
	Cities ports.CityRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

func (b *Backend) Ping(ctx context.Context) error { return b.ping(ctx) }

func (b *Backend) Close(ctx context.Context) error { return b.close(ctx) }

// Open connects to the configured store and prepares its schema: MySQL
// migrations are applied and Mongo indexes are created.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		conn, err := mysql.Connect(ctx, mysql.Config{DSN: cfg.MySQL.DSN})
		if err != nil {
			return nil, err
		}
		if err := mysql.Migrate(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		s := mysql.NewStore(conn)
		return &Backend{Name: "mysql", Users: s.Users(), Cities: s.Cities(), ping: s.Ping, close: s.Close}, nil

	case config.DriverMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		s := mongo.NewStore(client, database)
		return &Backend{Name: "mongodb", Users: s.Users(), Cities: s.Cities(), ping: s.Ping, close: s.Close}, nil

	case config.DriverMemory:
		s := memory.NewStore()
		return &Backend{Name: "memory", Users: s.Users(), Cities: s.Cities(), ping: s.Ping, close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
