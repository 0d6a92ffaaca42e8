package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Fallbacks used when the gateway env vars are absent.
const (
	defaultGatewayBaseURL = "https://dw38nz2i.ap-southeast.insforge.app"
	defaultSiteName       = "NextStep Guidance"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string
	ContentPath  string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret            string
	JWTExpiry            time.Duration
	TokenMagicLinkExpiry time.Duration

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Gateway (hosted backend: AI completions)
	GatewayBaseURL string
	GatewayAnonKey string
	AIBaseURL      string
	AIModel        string

	// Analytics
	PlausibleDomain string
	PlausibleHost   string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	gatewayBaseURL := strings.TrimSuffix(envString("INSFORGE_BASE_URL", defaultGatewayBaseURL), "/")

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", defaultSiteName),
		AppEnv:       envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:       envRequired("APP_URL"), // base URL for magic links and OAuth redirects
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "hello@nextstepguidance.com"),
		ContentPath:  envString("CONTENT_PATH", "content"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/nextstep.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:            envRequired("JWT_SECRET"),
		JWTExpiry:            envDuration("JWT_EXPIRY", 168*time.Hour),
		TokenMagicLinkExpiry: envDuration("TOKEN_MAGIC_LINK_EXPIRY", 10*time.Minute),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     envString("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: envString("GITHUB_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@nextstepguidance.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Gateway
		GatewayBaseURL: gatewayBaseURL,
		GatewayAnonKey: envString("INSFORGE_ANON_KEY", ""),
		AIBaseURL:      envString("AI_BASE_URL", gatewayBaseURL+"/api/ai/"),
		AIModel:        envString("AI_MODEL", "anthropic/claude-3.5-haiku"),

		// Analytics
		PlausibleDomain: envString("PLAUSIBLE_DOMAIN", ""),
		PlausibleHost:   envString("PLAUSIBLE_HOST", "plausible.io"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction exits when a service that has a development fallback is unset.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.GatewayAnonKey == "" {
		slog.Warn("INSFORGE_ANON_KEY is empty, chat completions will be rejected by the gateway")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// OAuthEnabled reports which sign-in providers have client credentials.
func (c *Config) OAuthEnabled() (google, github bool) {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "",
		c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		SupportEmail: c.SupportEmail,

		GoogleClientID:     c.GoogleClientID,
		GoogleClientSecret: mask(c.GoogleClientSecret),
		GitHubClientID:     c.GitHubClientID,
		GitHubClientSecret: mask(c.GitHubClientSecret),

		GatewayBaseURL: c.GatewayBaseURL,

		PlausibleDomain: c.PlausibleDomain,
		PlausibleHost:   c.PlausibleHost,
	}
}

// mask keeps only whether a secret is set, so OAuthEnabled still works on sanitized copies.
func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "set"
}

// DebugMode reports whether verbose provider logging was requested.
func DebugMode() bool {
	return envBool("DEBUG", false)
}
