package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Supabase SupabaseConfig
	AI       AIConfig
	Frontend FrontendConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
}

// SupabaseConfig holds the endpoints and keys for the hosted identity provider
// and object store. The service key is only attached to admin-scoped calls.
type SupabaseConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string

	ResumeBucket string
	PhotoBucket  string
}

type AIConfig struct {
	GroqAPIKey string
	GroqModel  string
}

type FrontendConfig struct {
	DevURL  string
	ProdURL string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg.App = AppConfig{
		AppName:     optDefault("APP_NAME", "jobboard"),
		Environment: optDefault("APP_ENV", "development"),
		HTTPPort:    optDefault("HTTP_PORT", "3000"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "require"),

		ConnectTimeout:      optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        optInt32("DB_POOL_MAX_CONNS", 0),
		PoolMinConns:        optInt32("DB_POOL_MIN_CONNS", 0),
		PoolMaxConnLifetime: optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime: optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
	}

	cfg.Supabase = SupabaseConfig{
		URL:        req("SUPABASE_URL"),
		AnonKey:    req("SUPABASE_ANON_KEY"),
		ServiceKey: req("SUPABASE_SERVICE_ROLE_KEY"),
		JWTSecret:  opt("SUPABASE_JWT_SECRET"),

		ResumeBucket: optDefault("RESUME_BUCKET", "resumes"),
		PhotoBucket:  optDefault("PHOTO_BUCKET", "photos"),
	}

	cfg.AI = AIConfig{
		GroqAPIKey: opt("GROQ_API_KEY"),
		GroqModel:  optDefault("GROQ_MODEL", "llama3-70b-8192"),
	}

	cfg.Frontend = FrontendConfig{
		DevURL:  opt("DEV_FRONTEND_URL"),
		ProdURL: opt("PROD_FRONTEND_URL"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// OriginURL picks the frontend origin for login redirects based on the running
// environment.
func (c Config) OriginURL() string {
	if strings.EqualFold(c.App.Environment, "development") {
		return c.Frontend.DevURL
	}
	return c.Frontend.ProdURL
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func optInt32(key string, def int32) int32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return def
	}
	return int32(v)
}
