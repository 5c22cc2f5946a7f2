package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

// ErrMisconfigured marks configuration that must stop the process at startup.
var ErrMisconfigured = errors.New("configuration invalid")

const (
	RevocationBackendPostgres = "postgres"
	RevocationBackendRedis    = "redis"
)

type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Revocation RevocationConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Log        LogConfig
}

type ServerConfig struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	Port            string        `envconfig:"PORT" default:"5000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	TrustedProxies  []string      `envconfig:"TRUSTED_PROXIES"`
}

type AuthConfig struct {
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTExpiresIn  time.Duration `envconfig:"JWT_EXPIRES_IN" default:"24h"`
	BcryptCost    int           `envconfig:"BCRYPT_COST" default:"12"`
	CookieName    string        `envconfig:"AUTH_COOKIE_NAME" default:"token"`
	CookiePath    string        `envconfig:"AUTH_COOKIE_PATH" default:"/"`
	CookieDomain  string        `envconfig:"AUTH_COOKIE_DOMAIN"`
	CookieSecure  string        `envconfig:"AUTH_COOKIE_SECURE"`
	AdminUsername string        `envconfig:"ADMIN_USERNAME"`
	AdminEmail    string        `envconfig:"ADMIN_EMAIL"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
}

type PostgresConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"cytutor_user"`
	Password    string `envconfig:"DB_PASSWORD"`
	Database    string `envconfig:"DB_NAME" default:"cytutor"`
	SSLMode     string `envconfig:"DB_SSLMODE"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RevocationConfig struct {
	Backend       string        `envconfig:"REVOCATION_BACKEND" default:"postgres"`
	CacheSize     int           `envconfig:"REVOCATION_CACHE_SIZE" default:"10000"`
	CacheTTL      time.Duration `envconfig:"REVOCATION_CACHE_TTL" default:"5m"`
	PruneSchedule string        `envconfig:"REVOCATION_PRUNE_SCHEDULE" default:"@every 1h"`
}

type RateLimitConfig struct {
	Requests     int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	Window       time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	AuthRequests int           `envconfig:"AUTH_RATE_LIMIT_REQUESTS" default:"5"`
	AuthWindow   time.Duration `envconfig:"AUTH_RATE_LIMIT_WINDOW" default:"15m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: read .env: %v", ErrMisconfigured, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMisconfigured, err)
	}
	for i, proxy := range cfg.Server.TrustedProxies {
		cfg.Server.TrustedProxies[i] = strings.TrimSpace(proxy)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the process relies on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	if c.Auth.JWTExpiresIn <= 0 {
		return fmt.Errorf("%w: JWT_EXPIRES_IN must be positive", ErrMisconfigured)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: BCRYPT_COST must be between %d and %d", ErrMisconfigured, bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Revocation.Backend {
	case RevocationBackendPostgres, RevocationBackendRedis:
	default:
		return fmt.Errorf("%w: unknown REVOCATION_BACKEND %q", ErrMisconfigured, c.Revocation.Backend)
	}
	if c.Revocation.CacheSize < 0 {
		return fmt.Errorf("%w: REVOCATION_CACHE_SIZE must not be negative", ErrMisconfigured)
	}
	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			return fmt.Errorf("%w: TRUSTED_PROXIES entry %q is not an IP or CIDR", ErrMisconfigured, proxy)
		}
	}
	if c.IsProduction() {
		for _, origin := range c.CORS.AllowedOrigins {
			if strings.TrimSpace(origin) == "*" {
				return fmt.Errorf("%w: wildcard CORS origin is not allowed in production", ErrMisconfigured)
			}
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// CookieSecure resolves AUTH_COOKIE_SECURE, defaulting to secure cookies in production.
func (c Config) CookieSecure() bool {
	switch strings.ToLower(strings.TrimSpace(c.Auth.CookieSecure)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return c.IsProduction()
	}
}

// SSLMode falls back to require in production and disable elsewhere.
func (c Config) SSLMode() string {
	if c.Postgres.SSLMode != "" {
		return c.Postgres.SSLMode
	}
	if c.IsProduction() {
		return "require"
	}
	return "disable"
}
