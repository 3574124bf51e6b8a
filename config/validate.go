package config

import (
	"errors"
	"net/url"
	"strings"
)

// Validate validates config values.
func Validate(cfg Config) error {
	var issues []string

	if cfg.BaseURL == "" {
		issues = append(issues, "base_url is required")
	} else if parsed, err := url.Parse(cfg.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		issues = append(issues, "base_url must be an absolute http(s) origin")
	}
	if cfg.HTTPTimeout < 0 {
		issues = append(issues, "http_timeout must be >= 0")
	}
	if cfg.MaxRetries < 0 {
		issues = append(issues, "max_retries must be >= 0")
	}
	if cfg.CredentialsFile != "" && cfg.CredentialsKey == "" {
		issues = append(issues, "credentials_key is required when credentials_file is set")
	}

	if cfg.LogLevel != "" && !validLogLevel(cfg.LogLevel) {
		issues = append(issues, "log_level must be one of debug|info|warn|error")
	}
	if cfg.LogFormat != "" && !validLogFormat(cfg.LogFormat) {
		issues = append(issues, "log_format must be one of text|json")
	}

	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

func validLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validLogFormat(format string) bool {
	switch strings.ToLower(format) {
	case "text", "json":
		return true
	default:
		return false
	}
}
