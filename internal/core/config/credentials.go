package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Credentials is the document-store credential blob. Deployments hand it
// over as a single environment variable holding either the JSON literal or
// its base64 encoding, so secrets tooling that mangles raw JSON can still be
// used.
type Credentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslmode"`
}

// ParseCredentials decodes the blob. A value starting with "{" is parsed as
// JSON directly; anything else is base64-decoded first.
func ParseCredentials(blob string) (Credentials, error) {
	raw := strings.TrimSpace(blob)
	if raw == "" {
		return Credentials{}, fmt.Errorf("credential blob is empty")
	}

	if !strings.HasPrefix(raw, "{") {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return Credentials{}, fmt.Errorf("credential blob is neither a JSON object nor base64: %w", err)
		}
		raw = strings.TrimSpace(string(decoded))
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse credential JSON: %w", err)
	}

	if creds.Host == "" {
		return Credentials{}, fmt.Errorf("credential JSON is missing host")
	}
	if creds.User == "" {
		return Credentials{}, fmt.Errorf("credential JSON is missing user")
	}
	if creds.Port == 0 {
		creds.Port = 5432
	}
	if creds.SSLMode == "" {
		creds.SSLMode = "require"
	}

	return creds, nil
}

// DSN builds the connection string for the given target database.
func (c Credentials) DSN(dbname string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + dbname,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
