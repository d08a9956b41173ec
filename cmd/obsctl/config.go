package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// appName decides the per-user configuration directory name.
const appName = "obsctl"

// Config is the optional YAML configuration. Defaults cover the common
// case of OBS on the local machine; the file exists for non-default
// hosts, a custom password file location, or a different default input.
type Config struct {
	OBS      OBSConfig      `yaml:"obs"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type OBSConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	TimeoutMS int    `yaml:"timeout_ms"`

	// PasswordFile overrides the default websocket-token location.
	PasswordFile string `yaml:"password_file,omitempty"`
}

type DefaultsConfig struct {
	Input string `yaml:"input"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
// Keep this aligned with constants.go.
func DefaultConfig() Config {
	return Config{
		OBS: OBSConfig{
			Host:      defaultHost,
			Port:      defaultPort,
			TimeoutMS: defaultReadTimeoutMS,
		},
		Defaults: DefaultsConfig{
			Input: defaultInputName,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the
// defaults. Unknown fields are rejected to catch typos, and trailing
// documents are an error.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies flag values on top of a loaded config. A nil
// pointer means the flag was not set.
type FlagOverrides struct {
	Host         *string
	Port         *int
	TimeoutMS    *int
	PasswordFile *string
	Input        *string
	LogLevel     *string
}

func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Host != nil {
		cfg.OBS.Host = *o.Host
	}
	if o.Port != nil {
		cfg.OBS.Port = *o.Port
	}
	if o.TimeoutMS != nil {
		cfg.OBS.TimeoutMS = *o.TimeoutMS
	}
	if o.PasswordFile != nil {
		cfg.OBS.PasswordFile = *o.PasswordFile
	}
	if o.Input != nil {
		cfg.Defaults.Input = *o.Input
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// Called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	if c.OBS.Host == "" {
		return errors.New("obs.host must not be empty")
	}
	if c.OBS.Port <= 0 || c.OBS.Port > 65535 {
		return errors.New("obs.port must be between 1 and 65535")
	}
	if c.OBS.TimeoutMS <= 0 {
		return errors.New("obs.timeout_ms must be > 0")
	}
	if c.Defaults.Input == "" {
		return errors.New("defaults.input must not be empty")
	}
	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	return nil
}

// configDir returns the per-user configuration directory for obsctl.
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine configuration directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// ExpandPath expands a leading "~" in a path using the home directory.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
