package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Database Database
	Redis    Redis
	Kafka    Kafka
	JWT      JWT `envPrefix:"JWT_"`
	Auth     Auth `envPrefix:"AUTH_"`
}

// Database holds Postgres pool settings.
type Database struct {
	URL      string `env:"DATABASE_URL,required"`
	PoolSize int    `env:"DB_POOL_SIZE" envDefault:"20"`
}

// Redis holds cache settings. An empty URL disables the cache.
type Redis struct {
	URL      string        `env:"REDIS_URL"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"50"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// Kafka holds todo event settings. No brokers disables publishing and the worker.
type Kafka struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic      string   `env:"KAFKA_TODO_TOPIC" envDefault:"todo-events"`
	Partitions int      `env:"KAFKA_PARTITIONS" envDefault:"8"`
	GroupID    string   `env:"KAFKA_GROUP_ID" envDefault:"todo-cache-warmers"`
}

// JWT holds token signing settings.
type JWT struct {
	Secret string        `env:"SECRET,required"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
	Issuer string        `env:"ISSUER" envDefault:"todo-app"`
}

// Auth holds limits for the public auth routes.
type Auth struct {
	RateLimit  int           `env:"RATE_LIMIT" envDefault:"20"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// NewDatabaseConfig loads only the database settings, for tools that do not serve HTTP.
func NewDatabaseConfig() (*Database, error) {
	db := Database{}
	if err := env.Parse(&db); err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	return &db, nil
}

// LoadEnvFile reads a .env file into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.URL != ""
}

// EventsEnabled reports whether Kafka brokers were configured.
func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
