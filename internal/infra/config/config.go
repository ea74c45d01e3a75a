package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"deal_deadline_notifier/internal/domain/alert"

	"github.com/joho/godotenv"
)

const (
	defaultFromEmail     = "onboarding@resend.dev"
	defaultAdminRole     = "admin"
	defaultLookaheadDays = 2
	defaultUrgencyHours  = 48
	defaultListenAddr    = ":8080"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	CronSecret          string // Bearer secret of the trigger; empty disables the check
	DatabaseURL         string
	ResendAPIKey        string
	AlertFromEmail      string
	AdminAlertEmails    []string // Static fallback admin recipients
	AdminRoles          []string
	LookaheadDays       int
	UrgencyHours        int // 0 disables the hours-left filter
	FailurePolicy       alert.FailurePolicy
	Location            *time.Location
	DashboardURL        string
	ListenAddr          string
	CronSpecDDAlerts    string // In-process schedule; empty means external trigger only
	TelegramToken       string
	TelegramAlertChatID int64
	LogLevel            string
	Environment         string
}

// Load reads configuration from environment variables and .env file (if present).
// Missing credentials are not a load error; see Validate.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.CronSecret = os.Getenv("CRON_SECRET")
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.ResendAPIKey = strings.TrimSpace(os.Getenv("RESEND_API_KEY"))

	cfg.AlertFromEmail = strings.TrimSpace(os.Getenv("ALERT_FROM_EMAIL"))
	if cfg.AlertFromEmail == "" {
		cfg.AlertFromEmail = defaultFromEmail
	}

	cfg.AdminAlertEmails = splitList(os.Getenv("ADMIN_ALERT_EMAILS"), false)

	cfg.AdminRoles = splitList(os.Getenv("ADMIN_ROLE"), true)
	if len(cfg.AdminRoles) == 0 {
		cfg.AdminRoles = []string{defaultAdminRole}
	}

	if cfg.LookaheadDays, err = intFromEnv("ALERT_LOOKAHEAD_DAYS", defaultLookaheadDays); err != nil {
		return nil, err
	}
	if cfg.LookaheadDays < 0 {
		return nil, fmt.Errorf("invalid ALERT_LOOKAHEAD_DAYS: must not be negative")
	}

	if cfg.UrgencyHours, err = intFromEnv("ALERT_URGENCY_HOURS", defaultUrgencyHours); err != nil {
		return nil, err
	}
	if cfg.UrgencyHours < 0 {
		return nil, fmt.Errorf("invalid ALERT_URGENCY_HOURS: must not be negative")
	}

	cfg.FailurePolicy, err = alert.ParseFailurePolicy(os.Getenv("ALERT_FAILURE_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALERT_FAILURE_POLICY: %w", err)
	}

	tz := strings.TrimSpace(os.Getenv("ALERT_TIMEZONE"))
	if tz == "" {
		tz = "Local"
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid ALERT_TIMEZONE: %w", err)
	}

	cfg.DashboardURL = strings.TrimSpace(os.Getenv("DASHBOARD_URL"))

	cfg.ListenAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	cfg.CronSpecDDAlerts = strings.TrimSpace(os.Getenv("CRON_SPEC_DD_ALERTS"))

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatIDStr := os.Getenv("TELEGRAM_ALERT_CHAT_ID"); chatIDStr != "" {
		cfg.TelegramAlertChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALERT_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// Validate reports missing store or delivery credentials. The returned
// error wraps alert.ErrConfiguration.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.ResendAPIKey == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", alert.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// TelegramMirrorEnabled reports whether alerts are also posted to Telegram.
func (c *AppConfig) TelegramMirrorEnabled() bool {
	return c.TelegramToken != "" && c.TelegramAlertChatID != 0
}

func intFromEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string, lower bool) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lower {
			part = strings.ToLower(part)
		}
		out = append(out, part)
	}
	return out
}
