package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// StorageDriver selects the repositories: postgres or memory.
	StorageDriver string
	// SequenceBackend selects where numbering counters live: postgres, redis or memory.
	SequenceBackend  string
	SequenceLocation *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LockTimeout        time.Duration
	RateLimit          string
	MigrationsPath     string
	CORSAllowedOrigins []string
}

func setDefaults() {
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("STORAGE_DRIVER", DriverPostgres)
	viper.SetDefault("SEQUENCE_BACKEND", "")
	viper.SetDefault("SEQUENCE_TIMEZONE", "UTC")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LEDGER_LOCK_TIMEOUT", "5s")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	setDefaults()
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		StorageDriver:  strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		RedisAddr:      viper.GetString("REDIS_ADDR"),
		RedisPassword:  viper.GetString("REDIS_PASSWORD"),
		RedisDB:        viper.GetInt("REDIS_DB"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER is %s", DriverPostgres)
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cfg.SequenceBackend = strings.ToLower(viper.GetString("SEQUENCE_BACKEND"))
	if cfg.SequenceBackend == "" {
		cfg.SequenceBackend = cfg.StorageDriver
	}
	switch cfg.SequenceBackend {
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported SEQUENCE_BACKEND %q", cfg.SequenceBackend)
	}
	if cfg.SequenceBackend == DriverPostgres && cfg.StorageDriver != DriverPostgres {
		return nil, fmt.Errorf("SEQUENCE_BACKEND %s requires STORAGE_DRIVER %s", DriverPostgres, DriverPostgres)
	}

	loc, err := time.LoadLocation(viper.GetString("SEQUENCE_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEQUENCE_TIMEZONE: %w", err)
	}
	cfg.SequenceLocation = loc

	lockTimeoutStr := viper.GetString("LEDGER_LOCK_TIMEOUT")
	cfg.LockTimeout, err = time.ParseDuration(lockTimeoutStr)
	if err != nil || cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for LEDGER_LOCK_TIMEOUT ('%s'). Defaulting to %s.\n", lockTimeoutStr, cfg.LockTimeout)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
