// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads httpsigctl's YAML configuration: named signing
// profiles plus ambient logging/metrics settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SigningProfile names a default covered-component set and algorithm
// choice for one class of request (e.g. "default", "webhook-inbound").
type SigningProfile struct {
	Components []string      `yaml:"components" json:"components"`
	Algorithm  string        `yaml:"algorithm" json:"algorithm"`
	KeyID      string        `yaml:"keyid" json:"keyid"`
	Expires    time.Duration `yaml:"expires" json:"expires"`
}

// LoggingConfig holds logging settings. httpsigctl's logger does not read
// them; it is built by internal/logger's NewDefaultLogger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig holds settings for internal/metrics' HTTP exposition.
// Nothing in httpsigctl starts a metrics server from them.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// Config is httpsigctl's top-level configuration.
type Config struct {
	Environment string                    `yaml:"environment" json:"environment"`
	Profiles    map[string]SigningProfile `yaml:"profiles" json:"profiles"`
	Logging     *LoggingConfig            `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig            `yaml:"metrics" json:"metrics"`
}

// Profile returns the named signing profile, falling back to "default".
func (c *Config) Profile(name string) (SigningProfile, error) {
	if name == "" {
		name = "default"
	}
	profile, ok := c.Profiles[name]
	if !ok {
		return SigningProfile{}, fmt.Errorf("config: signing profile %q not found", name)
	}
	return profile, nil
}

// LoadFromFile reads a YAML (or JSON) config file from path and applies defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// SaveToFile writes cfg to path as YAML, or JSON if path ends in ".json".
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]SigningProfile)
	}
	if _, ok := cfg.Profiles["default"]; !ok {
		cfg.Profiles["default"] = SigningProfile{
			Components: []string{"@method", "@target-uri", "content-digest"},
			Algorithm:  "ed25519",
			Expires:    5 * time.Minute,
		}
	}

	if cfg.Logging != nil {
		if cfg.Logging.Level == "" {
			cfg.Logging.Level = "info"
		}
		if cfg.Logging.Format == "" {
			cfg.Logging.Format = "json"
		}
		if cfg.Logging.Output == "" {
			cfg.Logging.Output = "stdout"
		}
	}

	if cfg.Metrics != nil {
		if cfg.Metrics.Addr == "" {
			cfg.Metrics.Addr = ":9090"
		}
		if cfg.Metrics.Path == "" {
			cfg.Metrics.Path = "/metrics"
		}
	}
}
