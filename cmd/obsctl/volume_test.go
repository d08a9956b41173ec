package main

import (
	"errors"
	"math"
	"testing"
)

func TestParseVolumeSpec_Decibel(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"-6dB", -6.0},
		{"-6db", -6.0},
		{"-6DB", -6.0},
		{"0dB", 0.0},
		{"3.5dB", 3.5},
	}
	for _, c := range cases {
		got, err := parseVolumeSpec(c.raw)
		if err != nil {
			t.Errorf("parseVolumeSpec(%q) error: %v", c.raw, err)
			continue
		}
		if got.Unit != UnitDecibel {
			t.Errorf("parseVolumeSpec(%q) unit = %v, want dB", c.raw, got.Unit)
		}
		if got.Value != c.want {
			t.Errorf("parseVolumeSpec(%q) = %v, want %v", c.raw, got.Value, c.want)
		}
	}
}

func TestParseVolumeSpec_Multiplier(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"150", 1.5},
		{"50%", 0.5},
		{"100", 1.0},
		{"0", 0.0},
		{"0%", 0.0},
		{"-50", -0.5}, // negative gain is the server's problem, not the parser's
	}
	for _, c := range cases {
		got, err := parseVolumeSpec(c.raw)
		if err != nil {
			t.Errorf("parseVolumeSpec(%q) error: %v", c.raw, err)
			continue
		}
		if got.Unit != UnitMultiplier {
			t.Errorf("parseVolumeSpec(%q) unit = %v, want mul", c.raw, got.Unit)
		}
		if math.Abs(got.Value-c.want) > 1e-12 {
			t.Errorf("parseVolumeSpec(%q) = %v, want %v", c.raw, got.Value, c.want)
		}
	}
}

func TestParseVolumeSpec_Invalid(t *testing.T) {
	for _, raw := range []string{"", "dB", "abcdB", "%", "--5", "1.2.3", "Inf", "NaN", "5%%"} {
		_, err := parseVolumeSpec(raw)
		if !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("parseVolumeSpec(%q) = %v, want ErrInvalidNumber", raw, err)
		}
	}
}

func TestParseFadeDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"5", 5.0},
		{"2s", 2.0},
		{"0.5", 0.5},
		{"0", 0.0}, // parse accepts zero; the fader rejects it
		{"-1", -1.0},
	}
	for _, c := range cases {
		got, err := parseFadeDuration(c.raw)
		if err != nil {
			t.Errorf("parseFadeDuration(%q) error: %v", c.raw, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseFadeDuration(%q) = %v, want %v", c.raw, got, c.want)
		}
	}

	for _, raw := range []string{"", "s", "fast", "1m", "Inf"} {
		if _, err := parseFadeDuration(raw); !errors.Is(err, ErrInvalidNumber) {
			t.Errorf("parseFadeDuration(%q) = %v, want ErrInvalidNumber", raw, err)
		}
	}
}
