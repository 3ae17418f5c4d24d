package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Upstream   UpstreamConfig
	Catalog    CatalogConfig
	Nearby     NearbyConfig
	RateLimit  RateLimitConfig
	Auth       AuthConfig
	Assistant  AssistantConfig
	Postgres   PostgresConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	Host           string
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// UpstreamConfig points at the existing PourRice REST API.
type UpstreamConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type CatalogConfig struct {
	RefreshInterval time.Duration
	CacheTTL        time.Duration
	// RequireWarmStart aborts startup when neither the upstream nor the
	// Redis copy can provide an initial catalog.
	RequireWarmStart bool
}

type NearbyConfig struct {
	DefaultLimit      int
	MaxLimit          int
	FeedCellPrecision uint
}

type RateLimitConfig struct {
	NearbyPerMin    int
	AssistantPerMin int
	RequestsPerMin  int
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type AssistantConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	DuplicateWindow time.Duration
	MaxURLs         int
}

// PostgresConfig is optional; an empty DSN disables lookup analytics.
type PostgresConfig struct {
	DSN string
}

type MonitoringConfig struct {
	// LogLevel overrides the environment's default level when set.
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("ENV", "development"),
			Host:           getEnv("HOST", "0.0.0.0"),
			AllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Upstream: UpstreamConfig{
			BaseURL:    getEnv("RESTAURANT_API_BASE_URL", "https://vercel-express-api-alpha.vercel.app"),
			Timeout:    getEnvAsDuration("RESTAURANT_API_TIMEOUT", 15*time.Second),
			MaxRetries: getEnvAsInt("RESTAURANT_API_MAX_RETRIES", 3),
		},
		Catalog: CatalogConfig{
			RefreshInterval:  getEnvAsDuration("CATALOG_REFRESH_INTERVAL", 10*time.Minute),
			CacheTTL:         getEnvAsDuration("CATALOG_CACHE_TTL", time.Hour),
			RequireWarmStart: getEnvAsBool("CATALOG_REQUIRE_WARM_START", false),
		},
		Nearby: NearbyConfig{
			DefaultLimit:      getEnvAsInt("NEARBY_DEFAULT_LIMIT", 10),
			MaxLimit:          getEnvAsInt("NEARBY_MAX_LIMIT", 50),
			FeedCellPrecision: uint(getEnvAsInt("FEED_GEOHASH_PRECISION", 7)),
		},
		RateLimit: RateLimitConfig{
			NearbyPerMin:    getEnvAsInt("RATE_LIMIT_NEARBY_PER_MIN", 30),
			AssistantPerMin: getEnvAsInt("RATE_LIMIT_ASSISTANT_PER_MIN", 5),
			RequestsPerMin:  getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MIN", 120),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Assistant: AssistantConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			BaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout:         getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
			DuplicateWindow: getEnvAsDuration("ASSISTANT_DUPLICATE_WINDOW", 30*time.Second),
			MaxURLs:         getEnvAsInt("ASSISTANT_MAX_URLS", 1),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
		Monitoring: MonitoringConfig{
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Nearby.DefaultLimit < 1 || c.Nearby.DefaultLimit > c.Nearby.MaxLimit {
		return fmt.Errorf("NEARBY_DEFAULT_LIMIT must be between 1 and NEARBY_MAX_LIMIT (%d)", c.Nearby.MaxLimit)
	}
	if c.Nearby.FeedCellPrecision < 1 || c.Nearby.FeedCellPrecision > 12 {
		return fmt.Errorf("FEED_GEOHASH_PRECISION must be between 1 and 12")
	}
	if c.Catalog.RefreshInterval <= 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must be positive")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("RESTAURANT_API_BASE_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// AnalyticsEnabled reports whether a Postgres DSN was configured.
func (c *Config) AnalyticsEnabled() bool {
	return c.Postgres.DSN != ""
}
