package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config, resolved once at
// process start.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
	Database DatabaseConfig `koanf:"database"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type AuthConfig struct {
	// Hottok is the shared secret Hotmart sends in the X-Hotmart-Hottok
	// header on every delivery.
	Hottok string `koanf:"hottok"`
}

type DatabaseConfig struct {
	// Credentials is the document-store credential blob: a JSON object,
	// accepted either literally or base64-encoded. See ParseCredentials.
	Credentials string `koanf:"credentials"`

	// Namespace is the target database the webhook_events collection
	// lives in.
	Namespace string `koanf:"namespace"`

	MaxOpenConns int  `koanf:"max_open_conns"`
	MaxIdleConns int  `koanf:"max_idle_conns"`
	AutoMigrate  bool `koanf:"auto_migrate"`
}

// DSN resolves the credential blob and namespace into a lib/pq connection
// string.
func (d DatabaseConfig) DSN() (string, error) {
	creds, err := ParseCredentials(d.Credentials)
	if err != nil {
		return "", err
	}
	return creds.DSN(d.Namespace), nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Auth.Hottok) == "" {
		return fmt.Errorf("auth.hottok is required")
	}

	if strings.TrimSpace(c.Database.Namespace) == "" {
		return fmt.Errorf("database.namespace is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if _, err := ParseCredentials(c.Database.Credentials); err != nil {
		return fmt.Errorf("database.credentials: %w", err)
	}

	return nil
}

// Load parses config from defaults, an optional YAML file, and HOOKSINK_*
// environment variables (double underscore separates nesting levels, e.g.
// HOOKSINK_AUTH__HOTTOK), then validates the result.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.namespace":      "hooksink",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("HOOKSINK_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "HOOKSINK_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
