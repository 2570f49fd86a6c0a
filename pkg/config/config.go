package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every configuration variable.
	EnvPrefix = "PARMA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validateDriver(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PARMA_APP_ENV" default:"dev"`
	Port         string `envconfig:"PARMA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PARMA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARMA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the catalog store. DSN is deliberately optional: when it
// is empty the service boots anyway and read paths serve the fallback dataset.
type DBConfig struct {
	DSN    string `envconfig:"PARMA_DB_DSN"`
	Driver string `envconfig:"PARMA_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"PARMA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARMA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARMA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARMA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Configured reports whether a catalog store was provided at all.
func (db DBConfig) Configured() bool {
	return strings.TrimSpace(db.DSN) != ""
}

func (db DBConfig) validateDriver() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case "", "postgres", "sqlite":
		return nil
	}
	return fmt.Errorf("unsupported db driver %q", db.Driver)
}

// RedisConfig describes the optional list-response cache. URL empty means the
// cache is disabled; the catalog works without it.
type RedisConfig struct {
	URL          string        `envconfig:"PARMA_REDIS_URL"`
	PoolSize     int           `envconfig:"PARMA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARMA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARMA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARMA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARMA_REDIS_WRITE_TIMEOUT" default:"5s"`
	ListTTL      time.Duration `envconfig:"PARMA_REDIS_LIST_TTL" default:"10s"`
}

// Enabled reports whether the redis cache should be wired.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// JWTConfig guards the admin mutation routes. Secret empty disables the guard
// so the catalog surface stays open for local development.
type JWTConfig struct {
	Secret            string `envconfig:"PARMA_JWT_SECRET"`
	Issuer            string `envconfig:"PARMA_JWT_ISSUER" default:"parma-catalog"`
	ExpirationMinutes int    `envconfig:"PARMA_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Enabled reports whether mutation routes require an admin token.
func (j JWTConfig) Enabled() bool {
	return strings.TrimSpace(j.Secret) != ""
}

// CacheConfig tunes the cache-control directives emitted per provenance.
type CacheConfig struct {
	LiveMaxAge         time.Duration `envconfig:"PARMA_CACHE_LIVE_MAX_AGE" default:"10s"`
	LiveRevalidate     time.Duration `envconfig:"PARMA_CACHE_LIVE_REVALIDATE" default:"60s"`
	FallbackMaxAge     time.Duration `envconfig:"PARMA_CACHE_FALLBACK_MAX_AGE" default:"60s"`
	FallbackRevalidate time.Duration `envconfig:"PARMA_CACHE_FALLBACK_REVALIDATE" default:"300s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARMA_AUTO_MIGRATE" default:"false"`
}
