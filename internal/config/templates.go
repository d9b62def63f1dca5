package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Template renders the default neobuild.toml.
func Template() ([]byte, error) {
	cfg := defaultFileConfig()
	cfg.StatusAddr = "127.0.0.1:9410"
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, template, 0o644)
}

// ValidateFile rejects unknown keys and then applies the regular load checks.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var raw fileConfig
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	_, err = Load(path)
	return err
}
