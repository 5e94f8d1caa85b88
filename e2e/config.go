package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BASE_URL points at a running server; the suite is skipped when unset
	BaseURL string `envconfig:"BASE_URL"`
	// E2E_WEBHOOK_SECRET must match the server's INBOUND_WEBHOOK_SECRET
	WebhookSecret string `envconfig:"E2E_WEBHOOK_SECRET"`
	// E2E_DEBUG_JSON allows dumping full HTTP request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
