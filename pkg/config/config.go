package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogMock     = "mock"
	CatalogHTTP     = "http"
	CatalogPostgres = "postgres"

	EventStoreMemory   = "memory"
	EventStorePostgres = "postgres"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	// CatalogSource selects where destinations and tours come from: mock, http or postgres.
	CatalogSource string
	CatalogAPI    CatalogAPIConfig

	// EventStore selects where the wizard timeline is kept: memory or postgres.
	EventStore string

	Auth AuthConfig

	// AllowedOrigins is a comma-separated allowlist of storefront origins. Example:
	//   https://voyage.example.com,http://localhost:5173
	AllowedOrigins []string

	NATS NATSConfig

	Wizard  WizardConfig
	Payment PaymentConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type CatalogAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type AuthConfig struct {
	TokenSecret string
	Audience    string

	// LoginURL is where unauthenticated wizard callers are sent. The booking
	// return marker is appended as ?redirect=booking.
	LoginURL string
}

type NATSConfig struct {
	URL string

	// Embedded starts an in-process server instead of dialing URL. Dev only.
	Embedded bool
	StoreDir string

	SubjectPrefix string
}

func (c NATSConfig) Enabled() bool {
	return c.Embedded || strings.TrimSpace(c.URL) != ""
}

type WizardConfig struct {
	SessionTTL time.Duration
	Timezone   string
}

type PaymentConfig struct {
	// DelayScale multiplies the simulated phase delays. 0 disables waiting.
	DelayScale float64
}

// UsesDatabase reports whether any component needs a Postgres pool.
func (c Config) UsesDatabase() bool {
	return c.CatalogSource == CatalogPostgres || c.EventStore == EventStorePostgres
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod"
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "voyage"),
			User:     env("DB_USER", "voyage"),
			Password: env("DB_PASSWORD", "voyage"),
			SSLMode:  env("DB_SSLMODE", "disable"),
			MaxConns: int32(envInt("DB_MAX_CONNS", 10)),
		},
		CatalogSource: strings.ToLower(env("CATALOG_SOURCE", CatalogMock)),
		CatalogAPI: CatalogAPIConfig{
			BaseURL: os.Getenv("CATALOG_API_URL"),
			APIKey:  os.Getenv("CATALOG_API_KEY"),
			Timeout: envDuration("CATALOG_API_TIMEOUT", 10*time.Second),
		},
		EventStore: strings.ToLower(env("EVENT_STORE", EventStoreMemory)),
		Auth: AuthConfig{
			TokenSecret: os.Getenv("AUTH_TOKEN_SECRET"),
			Audience:    env("AUTH_TOKEN_AUDIENCE", "voyage-storefront"),
			LoginURL:    env("AUTH_LOGIN_URL", "/v1/auth/login"),
		},
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
		NATS: NATSConfig{
			URL:           os.Getenv("NATS_URL"),
			Embedded:      envBool("NATS_EMBEDDED", false),
			StoreDir:      env("NATS_STORE_DIR", ".voyage/nats"),
			SubjectPrefix: env("NATS_SUBJECT_PREFIX", "voyage"),
		},
		Wizard: WizardConfig{
			SessionTTL: envDuration("WIZARD_SESSION_TTL", 2*time.Hour),
			Timezone:   env("WIZARD_TIMEZONE", "UTC"),
		},
		Payment: PaymentConfig{
			DelayScale: envFloat("PAYMENT_DELAY_SCALE", 1),
		},
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
