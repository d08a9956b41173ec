package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidNumber reports a volume or duration string whose numeric
// part does not parse as a finite float.
var ErrInvalidNumber = errors.New("invalid number")

// VolumeUnit selects the scale a volume value is expressed in.
type VolumeUnit int

const (
	// UnitDecibel is the logarithmic absolute scale used by OBS.
	UnitDecibel VolumeUnit = iota
	// UnitMultiplier is linear gain, 1.0 = unity.
	UnitMultiplier
)

func (u VolumeUnit) String() string {
	switch u {
	case UnitDecibel:
		return "dB"
	case UnitMultiplier:
		return "mul"
	}
	return "unknown"
}

// VolumeSpec is a volume target resolved to a single scale.
type VolumeSpec struct {
	Unit  VolumeUnit
	Value float64
}

func (v VolumeSpec) String() string {
	if v.Unit == UnitDecibel {
		return fmt.Sprintf("%.2fdB", v.Value)
	}
	return fmt.Sprintf("%.4f", v.Value)
}

// parseVolumeSpec resolves a user-supplied volume string. A trailing
// "db" (any case) selects the decibel scale with the numeric prefix
// taken as-is; otherwise an optional trailing "%" is stripped and the
// value is read as a percentage of unity gain.
func parseVolumeSpec(raw string) (VolumeSpec, error) {
	if db, ok := strings.CutSuffix(strings.ToLower(raw), "db"); ok {
		v, err := parseFinite(db)
		if err != nil {
			return VolumeSpec{}, fmt.Errorf("volume %q: %w", raw, err)
		}
		return VolumeSpec{Unit: UnitDecibel, Value: v}, nil
	}
	v, err := parseFinite(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return VolumeSpec{}, fmt.Errorf("volume %q: %w", raw, err)
	}
	return VolumeSpec{Unit: UnitMultiplier, Value: v / 100}, nil
}

// parseFadeDuration resolves a duration string in seconds. A trailing
// "s" is accepted and ignored.
func parseFadeDuration(raw string) (float64, error) {
	v, err := parseFinite(strings.TrimSuffix(raw, "s"))
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", raw, err)
	}
	return v, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}
