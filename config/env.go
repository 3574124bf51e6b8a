package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv applies environment overrides with a prefix (e.g. FITROOM_).
func LoadFromEnv(prefix string, base Config) Config {
	get := func(key string) string { return os.Getenv(prefix + key) }

	if value := get("BASE_URL"); value != "" {
		base.BaseURL = value
	}
	if value := get("HTTP_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.HTTPTimeout = d
		}
	}
	if value := get("MAX_RETRIES"); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			base.MaxRetries = n
		}
	}
	if value := get("CREDENTIALS_FILE"); value != "" {
		base.CredentialsFile = value
	}
	if value := get("CREDENTIALS_KEY"); value != "" {
		base.CredentialsKey = value
	}
	if value := get("POSTGRES_DSN"); value != "" {
		base.PostgresDSN = value
	}
	if value := get("PROFILE"); value != "" {
		base.Profile = value
	}
	if value := get("OAUTH2_AUTH_URL"); value != "" {
		base.OAuth2AuthURL = value
	}
	if value := get("OAUTH2_REDIRECT_URI"); value != "" {
		base.OAuth2RedirectURI = value
	}
	if value := get("LOG_LEVEL"); value != "" {
		base.LogLevel = value
	}
	if value := get("LOG_FORMAT"); value != "" {
		base.LogFormat = value
	}

	return base
}
