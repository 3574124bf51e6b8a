package config

import (
	"encoding/json"
	"os"
)

// Profile describes layered config sources for a client install: a main
// config file plus an optional secrets file kept out of dotfile syncs.
type Profile struct {
	ConfigPath   string
	SecretsPath  string
	EnvPrefix    string
	AllowMissing bool
}

// LoadProfile merges profile layers into a validated Config. Later layers
// win: defaults, config file, secrets file, then environment.
func LoadProfile(profile Profile) (Config, error) {
	cfg := Default()

	var err error
	if profile.ConfigPath != "" {
		cfg, err = loadJSON(profile.ConfigPath, cfg, profile.AllowMissing)
		if err != nil {
			return cfg, err
		}
	}
	if profile.SecretsPath != "" {
		cfg, err = loadJSON(profile.SecretsPath, cfg, profile.AllowMissing)
		if err != nil {
			return cfg, err
		}
	}
	if profile.EnvPrefix != "" {
		cfg = LoadFromEnv(profile.EnvPrefix, cfg)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadJSON(path string, base Config, allowMissing bool) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return base, nil
		}
		return base, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&base); err != nil {
		return base, err
	}
	return base, nil
}
