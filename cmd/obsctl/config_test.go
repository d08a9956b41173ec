package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OBS.Host != "localhost" || cfg.OBS.Port != 4455 {
		t.Errorf("default endpoint = %s:%d, want localhost:4455", cfg.OBS.Host, cfg.OBS.Port)
	}
	if cfg.Defaults.Input != "Mic/Aux" {
		t.Errorf("default input = %q, want Mic/Aux", cfg.Defaults.Input)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadConfigFile_PartialKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, `
obs:
  host: studio.lan
  port: 4456
`)
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.OBS.Host != "studio.lan" || cfg.OBS.Port != 4456 {
		t.Errorf("endpoint = %s:%d, want studio.lan:4456", cfg.OBS.Host, cfg.OBS.Port)
	}
	if cfg.OBS.TimeoutMS != defaultReadTimeoutMS {
		t.Errorf("timeout_ms = %d, want default %d", cfg.OBS.TimeoutMS, defaultReadTimeoutMS)
	}
	if cfg.Defaults.Input != defaultInputName {
		t.Errorf("input = %q, want default %q", cfg.Defaults.Input, defaultInputName)
	}
}

func TestLoadConfigFile_UnknownFieldRejected(t *testing.T) {
	path := writeTempConfig(t, `
obs:
  hoast: typo.lan
`)
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadConfigFile_TrailingDocumentRejected(t *testing.T) {
	path := writeTempConfig(t, `
obs:
  host: a
---
{}
`)
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected error for trailing document")
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadConfigFile(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()

	host := "studio.lan"
	port := 5000
	level := "debug"
	o := FlagOverrides{Host: &host, Port: &port, LogLevel: &level}
	o.Apply(&cfg)

	if cfg.OBS.Host != "studio.lan" || cfg.OBS.Port != 5000 {
		t.Errorf("endpoint = %s:%d, want studio.lan:5000", cfg.OBS.Host, cfg.OBS.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched fields keep their values.
	if cfg.OBS.TimeoutMS != defaultReadTimeoutMS {
		t.Errorf("timeout_ms = %d, want default %d", cfg.OBS.TimeoutMS, defaultReadTimeoutMS)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.OBS.Host = "" }},
		{"zero port", func(c *Config) { c.OBS.Port = 0 }},
		{"huge port", func(c *Config) { c.OBS.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.OBS.TimeoutMS = 0 }},
		{"empty input", func(c *Config) { c.Defaults.Input = "" }},
		{"empty level", func(c *Config) { c.Logging.Level = "" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %q, want %q", got, home)
	}
	if got := ExpandPath("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("ExpandPath(~/x) = %q, want %q", got, filepath.Join(home, "x"))
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
	if got := ExpandPath("~user/x"); !strings.HasPrefix(got, "~user") {
		t.Errorf("ExpandPath(~user/x) = %q, want untouched", got)
	}
}
