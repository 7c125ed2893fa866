package config

import (
	"os"
	"time"
)

// Config captures process-level configuration for the persistence core.
type Config struct {
	Postgres PostgresConfig
	Redis    RedisConfig
	Cache    CacheConfig
	LogLevel string
}

// PostgresConfig holds the document store connection settings. An empty
// URL selects the in-memory store.
type PostgresConfig struct {
	URL string
}

// RedisConfig holds cache backend settings. An empty URL selects the
// in-process cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CacheConfig tunes cached view retention.
type CacheConfig struct {
	TTL time.Duration
}

// FromEnv builds configuration from environment variables so main stays
// lean.
func FromEnv() Config {
	return Config{
		Postgres: PostgresConfig{
			URL: os.Getenv("AMANI_POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("AMANI_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Cache: CacheConfig{
			TTL: durationEnv("AMANI_CACHE_TTL", 5*time.Minute),
		},
		LogLevel: stringEnv("AMANI_LOG_LEVEL", "info"),
	}
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
