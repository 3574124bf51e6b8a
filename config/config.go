package config

import "time"

// Config holds client configuration.
type Config struct {
	BaseURL     string        `json:"base_url"`
	HTTPTimeout time.Duration `json:"http_timeout"`
	MaxRetries  int           `json:"max_retries"`

	CredentialsFile string `json:"credentials_file"`
	CredentialsKey  string `json:"credentials_key"`
	PostgresDSN     string `json:"postgres_dsn"`
	Profile         string `json:"profile"`

	OAuth2AuthURL     string `json:"oauth2_auth_url"`
	OAuth2RedirectURI string `json:"oauth2_redirect_uri"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// Default returns safe defaults.
func Default() Config {
	return Config{
		BaseURL:           "http://localhost:8000",
		HTTPTimeout:       30 * time.Second,
		MaxRetries:        2,
		CredentialsFile:   "",
		CredentialsKey:    "",
		PostgresDSN:       "",
		Profile:           "default",
		OAuth2AuthURL:     "http://localhost:8000/oauth2/authorization/google",
		OAuth2RedirectURI: "",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}
