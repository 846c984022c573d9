// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// SMTP holds the credentials of one outbound mail relay.
type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Configured reports whether a relay host and sender are set.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.From != ""
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver      string `env:"AGENCY_DB_DRIVER" envDefault:"sqlite"`
	DBDSN         string `env:"AGENCY_DB_DSN" envDefault:"./data/agency.db"`
	SessionSecret string `env:"AGENCY_SESSION_SECRET,required"`
	ServerHost    string `env:"AGENCY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"AGENCY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"AGENCY_ENV" envDefault:"development"`
	LogLevel      string `env:"AGENCY_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"AGENCY_UPLOADS_DIR" envDefault:"./uploads"`

	// SiteURL is the public base URL used in robots.txt and the sitemap.
	// When empty it is derived from the incoming request.
	SiteURL string `env:"AGENCY_SITE_URL"`

	// Locale routing
	Locales       []string `env:"AGENCY_LOCALES" envSeparator:"," envDefault:"en,ar"`
	DefaultLocale string   `env:"AGENCY_DEFAULT_LOCALE" envDefault:"en"`

	// Cache configuration
	RedisURL    string `env:"AGENCY_REDIS_URL"`
	CachePrefix string `env:"AGENCY_CACHE_PREFIX" envDefault:"agency:"`
	CacheTTL    int    `env:"AGENCY_CACHE_TTL" envDefault:"300"` // seconds

	// Contact relay
	SMTPHost     string `env:"AGENCY_SMTP_HOST"`
	SMTPPort     int    `env:"AGENCY_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"AGENCY_SMTP_USER"`
	SMTPPassword string `env:"AGENCY_SMTP_PASSWORD"`
	SMTPFrom     string `env:"AGENCY_SMTP_FROM"`
	ContactTo    string `env:"AGENCY_CONTACT_TO"`

	// Test email relay; empty fields fall back to the contact relay
	TestSMTPHost     string `env:"AGENCY_TEST_SMTP_HOST"`
	TestSMTPPort     int    `env:"AGENCY_TEST_SMTP_PORT"`
	TestSMTPUser     string `env:"AGENCY_TEST_SMTP_USER"`
	TestSMTPPassword string `env:"AGENCY_TEST_SMTP_PASSWORD"`
	TestSMTPFrom     string `env:"AGENCY_TEST_SMTP_FROM"`

	// Initial admin seed
	AdminEmail    string `env:"AGENCY_ADMIN_EMAIL"`
	AdminPassword string `env:"AGENCY_ADMIN_PASSWORD"`

	// DemoMode seeds bilingual sample content into an empty site
	DemoMode bool `env:"AGENCY_DEMO_MODE" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// ContactSMTP returns the relay used for contact form submissions.
func (c Config) ContactSMTP() SMTP {
	return SMTP{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		User:     c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}
}

// TestSMTP returns the relay used by the admin test email. The test relay
// is used as a whole when its host is set; otherwise the contact relay is.
func (c Config) TestSMTP() SMTP {
	if c.TestSMTPHost == "" {
		return c.ContactSMTP()
	}
	s := SMTP{
		Host:     c.TestSMTPHost,
		Port:     c.TestSMTPPort,
		User:     c.TestSMTPUser,
		Password: c.TestSMTPPassword,
		From:     c.TestSMTPFrom,
	}
	if s.Port == 0 {
		s.Port = c.SMTPPort
	}
	if s.From == "" {
		s.From = c.SMTPFrom
	}
	return s
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("AGENCY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("AGENCY_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("AGENCY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("AGENCY_DB_DRIVER must be sqlite or mysql, got %q", cfg.DBDriver)
	}

	locales := make([]string, 0, len(cfg.Locales))
	for _, l := range cfg.Locales {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && !slices.Contains(locales, l) {
			locales = append(locales, l)
		}
	}
	if len(locales) == 0 {
		return nil, fmt.Errorf("AGENCY_LOCALES must list at least one locale")
	}
	cfg.Locales = locales
	cfg.DefaultLocale = strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))
	if !slices.Contains(cfg.Locales, cfg.DefaultLocale) {
		return nil, fmt.Errorf("AGENCY_DEFAULT_LOCALE %q is not in AGENCY_LOCALES %v", cfg.DefaultLocale, cfg.Locales)
	}

	cfg.SiteURL = strings.TrimSuffix(strings.TrimSpace(cfg.SiteURL), "/")

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("AGENCY_CACHE_TTL must not be negative")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
