package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Service names accepted by Load.
const (
	ServiceTickets = "ticket-service"
	ServiceStatus  = "ticket-status-service"
)

// Config aggregates runtime configuration for either service.
type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	Logger        LoggerConfig
	TicketService UpstreamConfig
	StatusService UpstreamConfig
	Status        StatusConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// UpstreamConfig locates a peer service.
type UpstreamConfig struct {
	BaseURL   string
	TimeoutMS int
}

// StatusConfig tunes the status engine.
type StatusConfig struct {
	Timezone          string
	LookupConcurrency int
	CacheTTLSeconds   int
}

// Load reads configuration from environment variables, applying per-service defaults.
func Load(service string) (*Config, error) {
	_ = godotenv.Load()

	defaultPort, defaultMigrations := "8081", "migrations/tickets"
	if service == ServiceStatus {
		defaultPort, defaultMigrations = "8082", "migrations/status"
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", service),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", defaultPort),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", defaultMigrations),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", service == ServiceStatus),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		TicketService: UpstreamConfig{
			BaseURL:   getEnv("TICKET_SERVICE_URL", "http://localhost:8081"),
			TimeoutMS: getEnvAsInt("TICKET_SERVICE_TIMEOUT_MS", 3000),
		},
		StatusService: UpstreamConfig{
			BaseURL:   getEnv("STATUS_SERVICE_URL", "http://localhost:8082"),
			TimeoutMS: getEnvAsInt("STATUS_SERVICE_TIMEOUT_MS", 3000),
		},
		Status: StatusConfig{
			Timezone:          getEnv("STATUS_TIMEZONE", "Local"),
			LookupConcurrency: getEnvAsInt("STATUS_LOOKUP_CONCURRENCY", 8),
			CacheTTLSeconds:   getEnvAsInt("TICKET_CACHE_TTL_SECONDS", 300),
		},
	}

	if _, err := cfg.Status.Location(); err != nil {
		return nil, fmt.Errorf("invalid STATUS_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call timeout for the upstream.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(u.TimeoutMS) * time.Millisecond
}

// Location resolves the timezone used for daily summary windows.
func (s StatusConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// CacheTTL returns how long found tickets stay cached.
func (s StatusConfig) CacheTTL() time.Duration {
	if s.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
