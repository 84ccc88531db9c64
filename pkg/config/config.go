// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"offerboard/pkg/store"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	HTTPPort        int
	TLSCertFile     string
	TLSKeyFile      string
	ShutdownTimeout time.Duration

	StoreDriver  string
	SeedFixtures bool

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	OtelHost        string
	OtelProbability float64

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "offerboard"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "info"))

	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8080))
	cfg.TLSCertFile = cast.ToString(getOrReturnDefault("TLS_CERT_FILE", ""))
	cfg.TLSKeyFile = cast.ToString(getOrReturnDefault("TLS_KEY_FILE", ""))
	cfg.ShutdownTimeout = cast.ToDuration(getOrReturnDefault("SHUTDOWN_TIMEOUT", "15s"))

	cfg.StoreDriver = cast.ToString(getOrReturnDefault("STORE_DRIVER", store.DriverMemory))
	cfg.SeedFixtures = cast.ToBool(getOrReturnDefault("SEED_FIXTURES", true))

	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))

	cfg.RedisAddr = cast.ToString(getOrReturnDefault("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))
	cfg.RedisPrefix = cast.ToString(getOrReturnDefault("REDIS_PREFIX", "offerboard"))

	cfg.OtelHost = cast.ToString(getOrReturnDefault("OTEL_HOST", ""))
	cfg.OtelProbability = cast.ToFloat64(getOrReturnDefault("OTEL_PROBABILITY", 1.0))

	cfg.RateLimitRPS = cast.ToFloat64(getOrReturnDefault("RATE_LIMIT_RPS", 0))
	cfg.RateLimitBurst = cast.ToInt(getOrReturnDefault("RATE_LIMIT_BURST", 20))

	return cfg
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case store.DriverMemory:
	case store.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.StoreDriver)
		}
	case store.DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s driver", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.OtelProbability < 0 || c.OtelProbability > 1 {
		return fmt.Errorf("OTEL_PROBABILITY must be within [0,1], got %v", c.OtelProbability)
	}
	return nil
}

// TLSEnabled reports whether the server should terminate TLS.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
