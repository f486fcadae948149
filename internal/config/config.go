package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Cache        CacheConfig
	Media        MediaConfig
	Maps         MapsConfig
	Statistics   StatisticsConfig
	Notification NotificationConfig
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
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	BcryptCost              int
	LoginPath               string
	PasswordResetTTLMinutes int
}

// CacheConfig sets the key prefix and per-key TTLs of the response cache.
type CacheConfig struct {
	Prefix             string
	HomepageTTLSeconds int
	PromoTTLSeconds    int
	StatsTTLSeconds    int
}

// MediaConfig locates uploaded photos and rendered charts.
type MediaConfig struct {
	Root             string
	URLPrefix        string
	DefaultPhotoName string
}

// MapsConfig configures the static map collaborator.
type MapsConfig struct {
	AccessToken string
	BaseURL     string
	Style       string
	Width       int
	Height      int
	Zoom        int
}

// StatisticsConfig tunes reporting windows.
type StatisticsConfig struct {
	WindowDays int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	Workers    int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "estate-agency"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", defaultJWTSecret),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LoginPath:               getEnv("AUTH_LOGIN_PATH", "/auth/login"),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
		},
		Cache: CacheConfig{
			Prefix:             getEnv("CACHE_PREFIX", "estate"),
			HomepageTTLSeconds: getEnvAsInt("CACHE_HOMEPAGE_TTL_SECONDS", 300),
			PromoTTLSeconds:    getEnvAsInt("CACHE_PROMO_TTL_SECONDS", 300),
			StatsTTLSeconds:    getEnvAsInt("CACHE_STATS_TTL_SECONDS", 60),
		},
		Media: MediaConfig{
			Root:             getEnv("MEDIA_ROOT", "media"),
			URLPrefix:        getEnv("MEDIA_URL", "/media/"),
			DefaultPhotoName: getEnv("MEDIA_DEFAULT_PHOTO", "default_property.jpg"),
		},
		Maps: MapsConfig{
			AccessToken: os.Getenv("MAPBOX_ACCESS_TOKEN"),
			BaseURL:     getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
			Style:       getEnv("MAPBOX_STYLE", "mapbox/streets-v12"),
			Width:       getEnvAsInt("MAPBOX_IMAGE_WIDTH", 600),
			Height:      getEnvAsInt("MAPBOX_IMAGE_HEIGHT", 400),
			Zoom:        getEnvAsInt("MAPBOX_ZOOM", 14),
		},
		Statistics: StatisticsConfig{
			WindowDays: getEnvAsInt("STATS_WINDOW_DAYS", 30),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Workers:    getEnvAsInt("NOTIFY_WORKERS", 4),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const defaultJWTSecret = "dev-secret"

// validate rejects settings the service cannot run with.
func (c *Config) validate() error {
	if c.App.Env == "production" && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid AUTH_BCRYPT_COST %d: want 4..31", c.Auth.BcryptCost)
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns {
		return fmt.Errorf("POSTGRES_MIN_CONNS %d exceeds POSTGRES_MAX_CONNS %d", c.Postgres.MinConns, c.Postgres.MaxConns)
	}
	return nil
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

// Window returns the reporting window as a duration.
func (s StatisticsConfig) Window() time.Duration {
	days := s.WindowDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
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
