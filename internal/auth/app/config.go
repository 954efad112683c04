package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/service"
	"github.com/aussiebroadwan/passport/pkg/httpx"
	"github.com/aussiebroadwan/passport/pkg/jwtx"
)

// Discovery modes.
const (
	DiscoveryStatic = "static"
	DiscoveryRedis  = "redis"
)

type Config struct {
	JWTSecret    string        // Required: shared HMAC secret for every token
	JWTAlgorithm string        // Optional: HS256, HS384 or HS512 (default: HS512)
	AccessTTL    time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTTL   time.Duration // Optional: refresh token lifetime (default: 14d)

	AllowedProviders []domain.ProviderKind // Optional: login allow-list (default: apple,kakao)

	DirectoryService string        // Optional: logical name of the user directory (default: USER-SERVICE)
	DirectoryURLs    []string      // Static mode: directory base URLs
	DirectoryTimeout time.Duration // Optional: per-call directory timeout (default: 5s)
	DiscoveryMode    string        // Optional: static or redis (default: static)
	RedisAddr        string        // Redis mode: registry address
	RedisPassword    string        // Redis mode: optional password
	RedisDB          int           // Redis mode: database index (default: 0)

	DatabaseFile   string        // Optional: path to the SQLite audit database (default: ./audit.db)
	AuditRetention time.Duration // Optional: audit events older than this are purged (default: 30 days)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// Per-route rate limits, overridable with RATELIMIT_{LOGIN,TOKENS,HEALTH}_*.
	LoginLimit  httpx.RateLimitConfig
	TokensLimit httpx.RateLimitConfig
	HealthLimit httpx.RateLimitConfig
}

func LoadConfig() Config {
	return Config{
		JWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
		JWTAlgorithm: getEnvOrDefault("AUTH_JWT_ALGORITHM", jwtx.DefaultHMACAlgorithm),
		AccessTTL:    getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:   getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		AllowedProviders: parseProviders(getEnvOrDefault("AUTH_ALLOWED_PROVIDERS", "apple,kakao")),

		DirectoryService: getEnvOrDefault("DIRECTORY_SERVICE", "USER-SERVICE"),
		DirectoryURLs:    splitList(os.Getenv("DIRECTORY_URLS")),
		DirectoryTimeout: getEnvDurationOrDefault("DIRECTORY_TIMEOUT", 5*time.Second),
		DiscoveryMode:    strings.ToLower(getEnvOrDefault("DISCOVERY_MODE", DiscoveryStatic)),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvIntOrDefault("REDIS_DB", 0),

		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "audit.db"),
		AuditRetention: getEnvDurationOrDefault("AUDIT_RETENTION", service.DefaultAuditRetention),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		LoginLimit:  httpx.ParseRateLimitFromEnv("LOGIN", httpx.StrictLimit),
		TokensLimit: httpx.ParseRateLimitFromEnv("TOKENS", httpx.ModerateLimit),
		HealthLimit: httpx.ParseRateLimitFromEnv("HEALTH", httpx.LenientLimit),
	}
}

// Validate reports every configuration problem at once. The service refuses
// to start if it returns an error.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	switch strings.ToUpper(c.JWTAlgorithm) {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("AUTH_JWT_ALGORITHM %q is not one of HS256, HS384, HS512", c.JWTAlgorithm))
	}
	if c.AccessTTL <= 0 || c.AccessTTL%time.Second != 0 {
		errs = append(errs, errors.New("AUTH_ACCESS_TTL must be a positive whole number of seconds"))
	}
	if c.RefreshTTL <= 0 || c.RefreshTTL%time.Second != 0 {
		errs = append(errs, errors.New("AUTH_REFRESH_TTL must be a positive whole number of seconds"))
	}
	if len(c.AllowedProviders) == 0 {
		errs = append(errs, errors.New("AUTH_ALLOWED_PROVIDERS must name at least one provider"))
	}

	if strings.TrimSpace(c.DirectoryService) == "" {
		errs = append(errs, errors.New("DIRECTORY_SERVICE is required"))
	}
	if c.DirectoryTimeout <= 0 {
		errs = append(errs, errors.New("DIRECTORY_TIMEOUT must be positive"))
	}
	switch c.DiscoveryMode {
	case DiscoveryStatic:
		if len(c.DirectoryURLs) == 0 {
			errs = append(errs, errors.New("DIRECTORY_URLS is required in static discovery mode"))
		}
	case DiscoveryRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required in redis discovery mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("DISCOVERY_MODE %q is not static or redis", c.DiscoveryMode))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}

// parseProviders turns "Apple, kakao" into normalised provider kinds.
func parseProviders(value string) []domain.ProviderKind {
	var kinds []domain.ProviderKind
	for _, p := range splitList(value) {
		kinds = append(kinds, domain.ParseProviderKind(p))
	}
	return kinds
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
