package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// Session token signing. Secret is required; the process refuses to
	// start without it rather than minting unverifiable tokens.
	JWTSecret       string
	SessionTTLHours int

	// Cookie policy is a single explicit deployment choice. Cross-site
	// deployments (frontend on another origin) need SameSite=None, which
	// modern browsers only accept together with Secure.
	CookieCrossSite bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MediaEndpoint  string
	MediaRegion    string
	MediaBucket    string
	MediaAccessKey string
	MediaSecretKey string
	MediaBaseURL   string

	AllowedOrigins []string

	OTLPEndpoint string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() (Config, error) {
	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnvInt("PORT", 8080),
		DBURL:           buildDBURL(),
		JWTSecret:       os.Getenv("JWT_SECRET_KEY"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),
		CookieCrossSite: getEnvBool("COOKIE_CROSS_SITE", true),
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		MediaEndpoint:   getEnv("MEDIA_S3_ENDPOINT", "http://127.0.0.1:9000"),
		MediaRegion:     getEnv("MEDIA_S3_REGION", "us-east-1"),
		MediaBucket:     getEnv("MEDIA_S3_BUCKET", "learnhub-media"),
		MediaAccessKey:  os.Getenv("MEDIA_S3_ACCESS_KEY"),
		MediaSecretKey:  os.Getenv("MEDIA_S3_SECRET_KEY"),
		MediaBaseURL:    getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		AllowedOrigins:  splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminName:       getEnv("ADMIN_NAME", "Admin"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET_KEY is required")
	}

	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24
	}

	return cfg, nil
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// CookieSecure and CookieSameSite must stay consistent between setting and
// clearing the session cookie, so both read from the same policy.

func (c Config) CookieSecure() bool {
	if c.CookieCrossSite {
		return true
	}
	return c.Env == "prod"
}

func (c Config) CookieSameSite() http.SameSite {
	if c.CookieCrossSite {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "learnhub")
	pass := getEnv("DB_PASSWORD", "learnhub")
	name := getEnv("DB_NAME", "learnhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			return fallback
		}

		return b
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
