package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ErrInvalidDuration reports a fade duration that is zero, negative or
// not finite. Rejected before any remote call is made.
var ErrInvalidDuration = errors.New("fade duration must be a positive number of seconds")

// FadeAbortError is a fade cut short because the server rejected one of
// its volume updates. Tick is the 1-based tick the rejection happened
// on; the input is left at the last interim value the server confirmed.
type FadeAbortError struct {
	Tick int
	Err  error
}

func (e *FadeAbortError) Error() string {
	return fmt.Sprintf("fade aborted at tick %d: %v", e.Tick, e.Err)
}

func (e *FadeAbortError) Unwrap() error { return e.Err }

// volumeSession is the slice of the client the fader needs.
type volumeSession interface {
	InputVolume(input string) (InputVolumeLevels, error)
	SetInputVolume(input string, vol VolumeSpec) error
}

// fadeState is the interpolation state of one in-flight fade. It is
// owned by a single Fade call and never escapes it.
type fadeState struct {
	current    float64
	target     float64
	unit       VolumeUnit
	step       float64
	tick       int
	totalTicks int
}

// advance moves one step toward the target. The final planned tick, or
// any step that would meet or pass the target, lands on the target
// exactly so accumulated rounding never changes where the fade ends.
func (s *fadeState) advance() {
	s.tick++
	next := s.current + s.step
	if s.tick >= s.totalTicks || s.passed(next) {
		next = s.target
	}
	s.current = next
}

// passed reports whether v has met or passed the target in the
// direction of travel.
func (s *fadeState) passed(v float64) bool {
	if s.step > 0 {
		return v >= s.target
	}
	return v <= s.target
}

func (s *fadeState) done() bool { return s.current == s.target }

// Fader walks an input's volume to a target at a fixed tick rate,
// issuing one absolute volume set per tick.
type Fader struct {
	session volumeSession
	logger  *slog.Logger

	// interval is the wall-clock tick spacing. Step sizing always
	// assumes tickRateHz; tests shrink the interval to run fast.
	interval time.Duration
}

func newFader(session volumeSession, logger *slog.Logger) *Fader {
	return &Fader{
		session:  session,
		logger:   logger,
		interval: time.Second / tickRateHz,
	}
}

// Fade interpolates input's volume from its current level to target
// over durationSec seconds. The current level is read in the same scale
// as the target; interpolating across mismatched scales would bend the
// perceived fade. A tick whose round-trip overruns the interval slips
// that tick; the loop never fires catch-up calls and never skips.
func (f *Fader) Fade(ctx context.Context, input string, target VolumeSpec, durationSec float64) error {
	if durationSec <= 0 || math.IsInf(durationSec, 0) || math.IsNaN(durationSec) {
		return fmt.Errorf("%w (got %v)", ErrInvalidDuration, durationSec)
	}

	levels, err := f.session.InputVolume(input)
	if err != nil {
		return fmt.Errorf("fade %s: %w", input, err)
	}

	current := levels.Mul
	if target.Unit == UnitDecibel {
		current = levels.Db
	}

	if math.Abs(target.Value-current) <= volumeTolerance {
		f.logger.Debug("fade is a no-op", "input", input, "volume", target)
		return nil
	}

	totalTicks := int(math.Round(durationSec * tickRateHz))
	if totalTicks < 1 {
		// Sub-tick durations still fade, in a single step.
		totalTicks = 1
	}

	state := &fadeState{
		current:    current,
		target:     target.Value,
		unit:       target.Unit,
		step:       (target.Value - current) / float64(totalTicks),
		totalTicks: totalTicks,
	}

	f.logger.Debug("fade plan",
		"input", input,
		"from", current,
		"to", target.Value,
		"unit", target.Unit,
		"ticks", totalTicks,
		"step", state.step)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for !state.done() {
		select {
		case <-ctx.Done():
			f.logger.Warn("fade cancelled",
				"input", input, "tick", state.tick, "volume", state.current)
			return ctx.Err()
		case <-ticker.C:
		}

		state.advance()
		vol := VolumeSpec{Unit: state.unit, Value: state.current}
		if err := f.session.SetInputVolume(input, vol); err != nil {
			// Continuing past an unconfirmed write would let local and
			// remote volume state diverge silently.
			return &FadeAbortError{Tick: state.tick, Err: err}
		}
	}

	f.logger.Info("fade complete", "input", input, "volume", target, "ticks", state.tick)
	return nil
}
