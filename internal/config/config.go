package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// app config: server, store, scoring model and background jobs
type Config struct {
	Port        string
	Environment string

	Provider string

	StoreDriver    string
	Postgres       PostgresConfig
	SQLitePath     string
	MongoURI       string
	MongoDB        string
	StoreRetryWait time.Duration

	SessionSecret    string
	AllowAdminSignUp bool

	GenerationTimeout time.Duration

	RedisAddr string

	ReconcileEnabled    bool
	ReconcileSchedule   string
	ReconcileAutoRepair bool

	CORSAllowedOrigins []string
}

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
}

// IsProduction controls secure cookies and the logger flavour.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// loads configuration from environment variables, seeded from .env when present
func LoadConfig() (*Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	config := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		Provider:    getEnvOrDefault("AI_PROVIDER", "gemini"),
		StoreDriver: getEnvOrDefault("STORE_DRIVER", DriverPostgres),
		Postgres: PostgresConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("POSTGRES_DB", "mockprep"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		SQLitePath:          getEnvOrDefault("SQLITE_PATH", "mockprep.db"),
		MongoURI:            getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnvOrDefault("MONGO_DB", "mockprep"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		AllowAdminSignUp:    getEnvOrDefault("ALLOW_ADMIN_SIGN_UP", "false") == "true",
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		ReconcileEnabled:    getEnvOrDefault("RECONCILE_ENABLED", "true") == "true",
		ReconcileSchedule:   getEnvOrDefault("RECONCILE_SCHEDULE", "*/15 * * * *"),
		ReconcileAutoRepair: getEnvOrDefault("RECONCILE_AUTO_REPAIR", "true") == "true",
		CORSAllowedOrigins:  splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	var err error
	if config.GenerationTimeout, err = getEnvDuration("GENERATION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if config.StoreRetryWait, err = getEnvDuration("STORE_RETRY_WAIT", 5*time.Second); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Provider {
	case "gemini", "anthropic":
	default:
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini, anthropic")
	}
	// provider credentials are validated by the provider's own NewConfig()

	switch config.StoreDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return errors.New("unsupported store driver: " + config.StoreDriver)
	}

	if config.SessionSecret == "" {
		if config.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		config.SessionSecret = "dev-only-session-secret"
	}

	if config.GenerationTimeout <= 0 {
		return errors.New("GENERATION_TIMEOUT must be positive")
	}

	if _, err := strconv.Atoi(config.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", config.Port, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
