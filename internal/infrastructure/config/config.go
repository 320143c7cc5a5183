package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Ingest IngestConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME, default=15m"`
	BcryptCost    int           `env:"BCRYPT_COST,    default=10"`
}

// IngestConfig controls transaction ingestion. When Categories is empty the
// category set is loaded from the Redis set named by CategoriesKey.
type IngestConfig struct {
	Categories    []string      `env:"PRODUCT_CATEGORIES"`
	CategoriesKey string        `env:"CATEGORIES_REDIS_KEY, default=cashback:categories"`
	Workers       int           `env:"INGEST_WORKERS,       default=8"`
	DedupTTL      time.Duration `env:"DEDUP_TTL,            default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cashback_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether the process runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory, when present, seeds the environment
// without overriding variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
