package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mailvault/errors"
)

// Config is the whole environment surface of the server. Secrets are
// required and validated eagerly at startup; optional features carry a
// default and degrade gracefully when disabled.
type Config struct {
	Host string `env:"HOST,required=true"`
	Port int    `env:"PORT,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`

	AuthTokenSecret   string        `env:"AUTH_TOKEN_SECRET"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	InboundWebhookSecret     string `env:"INBOUND_WEBHOOK_SECRET"`
	MailgunWebhookSigningKey string `env:"MAILGUN_WEBHOOK_SIGNING_KEY"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	StripeAPIKey string `env:"STRIPE_API_KEY"`

	SubscriptionPriceID string `env:"SUBSCRIPTION_PRICE_ID"`
	CheckoutSuccessURL  string `env:"CHECKOUT_SUCCESS_URL,required=true"`
	CheckoutCancelURL   string `env:"CHECKOUT_CANCEL_URL,required=true"`

	OutboundFromAddress string `env:"OUTBOUND_FROM_ADDRESS,required=true"`

	AdminEmail      string `env:"ADMIN_EMAIL,required=true"`
	MaintenanceMode bool   `env:"MAINTENANCE_MODE,default=false"`

	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS,default=60"`
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW,default=1m"`

	SpamBlacklist string `env:"SPAM_BLACKLIST"`
	SpamWhitelist string `env:"SPAM_WHITELIST"`

	TrackActivity bool `env:"TRACK_ACTIVITY,default=false"`
}

// ValidateSecrets fails fast on any missing security-sensitive value.
// These are never silently defaulted; a server without them must not
// come up.
func (c Config) ValidateSecrets() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", errors.ErrMissingSecret, name)
	}

	if c.AuthTokenSecret == "" {
		return missing("AUTH_TOKEN_SECRET")
	}
	if c.InboundWebhookSecret == "" {
		return missing("INBOUND_WEBHOOK_SECRET")
	}
	if c.MailgunWebhookSigningKey == "" {
		return missing("MAILGUN_WEBHOOK_SIGNING_KEY")
	}
	if c.ResendAPIKey == "" {
		return missing("RESEND_API_KEY")
	}
	if c.StripeAPIKey == "" {
		return missing("STRIPE_API_KEY")
	}
	return nil
}

// SlogLevel maps the configured level name onto a slog level,
// defaulting to Info for anything unrecognized.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SplitList parses a comma-separated env value into trimmed entries.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
