// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetStaticDir() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SessionConfig provides settings for the session cookie and its signature.
type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
	GetSessionCookieSecure() bool
	GetSessionCookieSameSite() http.SameSite
}

// AuthConfig provides the fixed user table used by the login endpoint.
type AuthConfig interface {
	SessionConfig
	GetAuthUsers() map[string]string
}

// CatalogConfig provides settings for the procurement catalog service.
type CatalogConfig interface {
	GetCatalogServiceKey() string
	GetCatalogBaseURL() string
	GetCatalogInquiryBegin() string
	GetCatalogInquiryEnd() string
	GetCatalogTimeout() time.Duration
	GetCatalogRatePerSec() float64
}

// ImageConfig provides settings for the product image pipeline.
type ImageConfig interface {
	GetImageTimeout() time.Duration
	GetImageMaxBytes() int64
}

// QuoteConfig provides settings for document composition.
type QuoteConfig interface {
	GetCompanyProfilePath() string
	GetSealImagePath() string
	GetQuoteTimezone() string
}

// HistoryConfig provides settings for the quotation history store.
type HistoryConfig interface {
	GetHistoryBackend() string
	GetHistoryKey() string
	GetHistoryLimit() int
}

// RedisConfig provides settings for Redis connectivity.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketEstimates() string
	GetMinioBucketProductImages() string
	IsMinIOEnabled() bool
}

// History store backends.
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendRedis    = "redis"
	HistoryBackendPostgres = "postgres"
)

// Config holds every runtime setting. Modules receive it through one of the
// narrow interfaces above.
type Config struct {
	Env            string
	HTTPAddr       string
	StaticDir      string
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	CatalogServiceKey   string
	CatalogBaseURL      string
	CatalogInquiryBegin string
	CatalogInquiryEnd   string
	CatalogTimeout      time.Duration
	CatalogRatePerSec   float64

	ImageTimeout  time.Duration
	ImageMaxBytes int64

	SessionSecret         string
	SessionTTL            time.Duration
	SessionCookieName     string
	SessionCookieSecure   bool
	SessionCookieSameSite http.SameSite
	AuthUsers             map[string]string

	HistoryBackend string
	HistoryKey     string
	HistoryLimit   int

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	DatabaseURL string

	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinIOMaxFileSize         int64
	MinioBucketEstimates     string
	MinioBucketProductImages string

	CompanyProfilePath string
	SealImagePath      string
	QuoteTimezone      string
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetStaticDir() string     { return c.StaticDir }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetSessionSecret() string                { return c.SessionSecret }
func (c *Config) GetSessionTTL() time.Duration            { return c.SessionTTL }
func (c *Config) GetSessionCookieName() string            { return c.SessionCookieName }
func (c *Config) GetSessionCookieSecure() bool            { return c.SessionCookieSecure }
func (c *Config) GetSessionCookieSameSite() http.SameSite { return c.SessionCookieSameSite }
func (c *Config) GetAuthUsers() map[string]string         { return c.AuthUsers }

func (c *Config) GetCatalogServiceKey() string      { return c.CatalogServiceKey }
func (c *Config) GetCatalogBaseURL() string         { return c.CatalogBaseURL }
func (c *Config) GetCatalogInquiryBegin() string    { return c.CatalogInquiryBegin }
func (c *Config) GetCatalogInquiryEnd() string      { return c.CatalogInquiryEnd }
func (c *Config) GetCatalogTimeout() time.Duration  { return c.CatalogTimeout }
func (c *Config) GetCatalogRatePerSec() float64     { return c.CatalogRatePerSec }
func (c *Config) GetImageTimeout() time.Duration    { return c.ImageTimeout }
func (c *Config) GetImageMaxBytes() int64           { return c.ImageMaxBytes }
func (c *Config) GetCompanyProfilePath() string     { return c.CompanyProfilePath }
func (c *Config) GetSealImagePath() string          { return c.SealImagePath }
func (c *Config) GetQuoteTimezone() string          { return c.QuoteTimezone }
func (c *Config) GetHistoryBackend() string         { return c.HistoryBackend }
func (c *Config) GetHistoryKey() string             { return c.HistoryKey }
func (c *Config) GetHistoryLimit() int              { return c.HistoryLimit }
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool         { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }
func (c *Config) GetMinIOEndpoint() string          { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string         { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string         { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool              { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64        { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketEstimates() string   { return c.MinioBucketEstimates }
func (c *Config) GetMinioBucketProductImages() string {
	return c.MinioBucketProductImages
}

// IsMinIOEnabled reports whether object storage credentials are configured.
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

// IsSchedulerEnabled reports whether Redis is configured for background tasks.
func (c *Config) IsSchedulerEnabled() bool {
	return c.RedisURL != ""
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true") || containsWildcard(corsOrigins)

	env := getEnv("APP_ENV", "development")
	cookieSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		cookieSecure = strings.EqualFold(env, "production")
	}

	serviceKey := getEnv("CATALOG_SERVICE_KEY", "")
	if serviceKey == "" {
		serviceKey = getEnv("API_KEY", "")
	}

	users, err := parseUsers(getEnv("AUTH_USERS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:            env,
		HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
		StaticDir:      getEnv("STATIC_DIR", ""),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		CatalogServiceKey:   serviceKey,
		CatalogBaseURL:      getEnv("CATALOG_BASE_URL", "https://apis.data.go.kr/1230000/at/ShoppingMallPrdctInfoService/getMASCntrctPrdctInfoList"),
		CatalogInquiryBegin: getEnv("CATALOG_INQUIRY_BEGIN", "2024-01-01"),
		CatalogInquiryEnd:   getEnv("CATALOG_INQUIRY_END", "2026-12-31"),
		CatalogTimeout:      mustDuration(getEnv("CATALOG_TIMEOUT", "15s")),
		CatalogRatePerSec:   mustFloat(getEnv("CATALOG_RATE_PER_SEC", "5")),

		ImageTimeout:  mustDuration(getEnv("IMAGE_TIMEOUT", "10s")),
		ImageMaxBytes: mustInt64(getEnv("IMAGE_MAX_BYTES", "10485760")),

		SessionSecret:         getEnv("SESSION_SECRET", ""),
		SessionTTL:            mustDuration(getEnv("SESSION_TTL", "24h")),
		SessionCookieName:     getEnv("SESSION_COOKIE_NAME", "auth_token"),
		SessionCookieSecure:   cookieSecure,
		SessionCookieSameSite: parseSameSite(getEnv("SESSION_COOKIE_SAMESITE", "Lax")),
		AuthUsers:             users,

		HistoryBackend: strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendMemory)),
		HistoryKey:     getEnv("HISTORY_KEY", "estimate_history"),
		HistoryLimit:   int(mustInt64(getEnv("HISTORY_LIMIT", "30"))),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE_NAME", "default"),
		AsynqConcurrency: int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "4"))),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:         mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "52428800")),
		MinioBucketEstimates:     getEnv("MINIO_BUCKET_ESTIMATES", "estimates"),
		MinioBucketProductImages: getEnv("MINIO_BUCKET_PRODUCT_IMAGES", "product-images"),

		CompanyProfilePath: getEnv("COMPANY_PROFILE_PATH", ""),
		SealImagePath:      getEnv("SEAL_IMAGE_PATH", ""),
		QuoteTimezone:      getEnv("QUOTE_TIMEZONE", "Asia/Seoul"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive")
	}
	switch c.HistoryBackend {
	case HistoryBackendMemory:
	case HistoryBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when HISTORY_BACKEND is redis")
		}
	case HistoryBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when HISTORY_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

// parseUsers reads "name:bcrypt-hash,name2:hash2". Hashes contain '$' but no ','.
func parseUsers(value string) (map[string]string, error) {
	users := make(map[string]string)
	for _, entry := range splitCSV(value) {
		name, hash, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		hash = strings.TrimSpace(hash)
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("malformed AUTH_USERS entry %q", entry)
		}
		users[name] = hash
	}
	return users, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
