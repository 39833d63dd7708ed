package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string `env:"PORT,         default=5000"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`
	BodyLimit   string `env:"BODY_LIMIT,   default=10M"`
	StoreDriver string `env:"STORE_DRIVER, default=mysql"`

	Auth  AuthConfig
	MySQL MySQLConfig
	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET,      default=fallback-secret-key"`
	TokenTTL      time.Duration `env:"JWT_EXPIRE_TIME, default=168h"`
	BcryptCost    int           `env:"BCRYPT_COST,     default=12"`
	RateLimit     int           `env:"AUTH_RATE_LIMIT, default=20"`
	RateLimitSpan time.Duration `env:"AUTH_RATE_WINDOW, default=1m"`
}

type MySQLConfig struct {
	DSN string `env:"MYSQL_DSN, default=root:password@tcp(localhost:3306)/logistics?parseTime=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=logistics"`
}

// RedisConfig is optional: an empty address disables rate limiting.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SeedConfig struct {
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@shipsphere.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMySQL, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRE_TIME must be positive")
	}
	return nil
}
