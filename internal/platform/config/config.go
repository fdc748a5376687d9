package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration. Values load in three layers:
// built-in defaults, then an optional YAML file named by MAIL_GATEWAY_CONFIG,
// then environment variable overrides.
type Config struct {
	ServiceName string `yaml:"service_name"`
	HTTPPort    string `yaml:"http_port"`
	PostgresDSN string `yaml:"postgres_dsn"`

	// BaseURL is the forum's public URL; its hostname becomes the domain of
	// the reply-<pid>@<hostname> addresses.
	BaseURL string `yaml:"base_url"`

	APIUser     string `yaml:"api_user"`
	APIKey      string `yaml:"api_key"`
	SendName    string `yaml:"send_name"`
	FromAddress string `yaml:"from_address"`

	InboundEnabled    bool   `yaml:"inbound_enabled"`
	AllowGuestHandles bool   `yaml:"allow_guest_handles"`
	DefaultLang       string `yaml:"default_lang"`
	SiteTitle         string `yaml:"site_title"`

	AdminToken    string `yaml:"admin_token"`
	WebhookSecret string `yaml:"webhook_secret"`
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName:       "mailgate",
		HTTPPort:          "8080",
		BaseURL:           "http://localhost:4567",
		SendName:          "Forum",
		SiteTitle:         "Forum",
		DefaultLang:       "en-US",
		InboundEnabled:    true,
		AllowGuestHandles: false,
	}

	if path := os.Getenv("MAIL_GATEWAY_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	overrideString(&cfg.ServiceName, "SERVICE_NAME")
	overrideString(&cfg.HTTPPort, "HTTP_PORT")
	overrideString(&cfg.PostgresDSN, "POSTGRES_DSN")
	overrideString(&cfg.BaseURL, "BASE_URL")
	overrideString(&cfg.APIUser, "SENDCLOUD_API_USER")
	overrideString(&cfg.APIKey, "SENDCLOUD_API_KEY")
	overrideString(&cfg.SendName, "SENDCLOUD_SEND_NAME")
	overrideString(&cfg.FromAddress, "MAIL_FROM_ADDRESS")
	overrideString(&cfg.DefaultLang, "DEFAULT_LANG")
	overrideString(&cfg.SiteTitle, "SITE_TITLE")
	overrideString(&cfg.AdminToken, "ADMIN_TOKEN")
	overrideString(&cfg.WebhookSecret, "WEBHOOK_SECRET")
	overrideBool(&cfg.InboundEnabled, "INBOUND_ENABLED")
	overrideBool(&cfg.AllowGuestHandles, "ALLOW_GUEST_HANDLES")

	return cfg, nil
}

func overrideString(target *string, name string) {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		*target = value
	}
}

func overrideBool(target *bool, name string) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "1", "true", "t", "yes", "y", "on":
		*target = true
	case "0", "false", "f", "no", "n", "off":
		*target = false
	}
}
