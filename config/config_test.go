package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("FITROOM_BASE_URL", "http://backend:9000")
	t.Setenv("FITROOM_HTTP_TIMEOUT", "5s")
	t.Setenv("FITROOM_MAX_RETRIES", "4")
	t.Setenv("FITROOM_CREDENTIALS_KEY", "passphrase")
	t.Setenv("FITROOM_LOG_FORMAT", "json")

	cfg := LoadFromEnv("FITROOM_", Default())
	if cfg.BaseURL != "http://backend:9000" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.MaxRetries != 4 {
		t.Fatalf("max retries = %d", cfg.MaxRetries)
	}
	if cfg.CredentialsKey != "passphrase" {
		t.Fatalf("credentials key = %q", cfg.CredentialsKey)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("log format = %q", cfg.LogFormat)
	}
}

func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("FITROOM_HTTP_TIMEOUT", "not-a-duration")
	t.Setenv("FITROOM_MAX_RETRIES", "many")

	cfg := LoadFromEnv("FITROOM_", Default())
	if cfg.HTTPTimeout != Default().HTTPTimeout {
		t.Fatalf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.MaxRetries != Default().MaxRetries {
		t.Fatalf("max retries = %d", cfg.MaxRetries)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"base_url":"http://backend:9000","max_retries":0,"log_level":"debug"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://backend:9000" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.MaxRetries != 0 {
		t.Fatalf("max retries = %d", cfg.MaxRetries)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	if cfg.OAuth2AuthURL != Default().OAuth2AuthURL {
		t.Fatalf("unset field lost its default: %q", cfg.OAuth2AuthURL)
	}
}

func TestLoadFromFileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"base_urll":"typo"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path, Default()); err == nil {
		t.Fatalf("unknown field accepted")
	}
}

func TestLoadProfileLayering(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	secretsPath := filepath.Join(dir, "secrets.json")

	if err := os.WriteFile(configPath,
		[]byte(`{"base_url":"http://backend:9000","credentials_file":"/tmp/creds"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(secretsPath,
		[]byte(`{"credentials_key":"from-secrets"}`), 0o600); err != nil {
		t.Fatalf("write secrets: %v", err)
	}
	t.Setenv("FITROOM_BASE_URL", "http://backend:9999")

	cfg, err := LoadProfile(Profile{
		ConfigPath:  configPath,
		SecretsPath: secretsPath,
		EnvPrefix:   "FITROOM_",
	})
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if cfg.BaseURL != "http://backend:9999" {
		t.Fatalf("env layer did not win: %q", cfg.BaseURL)
	}
	if cfg.CredentialsKey != "from-secrets" {
		t.Fatalf("credentials key = %q", cfg.CredentialsKey)
	}
}

func TestLoadProfileAllowMissing(t *testing.T) {
	cfg, err := LoadProfile(Profile{
		ConfigPath:   filepath.Join(t.TempDir(), "absent.json"),
		AllowMissing: true,
	})
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if cfg.BaseURL != Default().BaseURL {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}

	if _, err := LoadProfile(Profile{
		ConfigPath: filepath.Join(t.TempDir(), "absent.json"),
	}); err == nil {
		t.Fatalf("missing required config accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default ok", mutate: func(*Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "/api" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTPTimeout = -time.Second }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: true},
		{
			name: "credentials file without key",
			mutate: func(c *Config) {
				c.CredentialsFile = "/tmp/creds"
				c.CredentialsKey = ""
			},
			wantErr: true,
		},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "yaml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr && err == nil {
				t.Fatalf("invalid config accepted")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("valid config rejected: %v", err)
			}
		})
	}
}
