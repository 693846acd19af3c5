package envelope

import (
	"fmt"
	"math"
)

const (
	// MaxTime is the longest attack, decay or release time in seconds.
	MaxTime = 60

	defaultSustain = 1
)

type config struct {
	attack             float32
	decay              float32
	sustain            float32
	release            float32
	skipSustain        bool
	alwaysReachSustain bool
}

func defaultConfig() config {
	return config{sustain: defaultSustain}
}

// Option configures a [Generator].
type Option func(*config) error

func validTime(name string, seconds float32) error {
	if math.IsNaN(float64(seconds)) || seconds < 0 || seconds > MaxTime {
		return fmt.Errorf("envelope: %s must be in [0, %d] s: %f", name, MaxTime, seconds)
	}

	return nil
}

// WithAttack sets the attack time in seconds (default 0).
func WithAttack(seconds float32) Option {
	return func(cfg *config) error {
		if err := validTime("attack", seconds); err != nil {
			return err
		}
		cfg.attack = seconds

		return nil
	}
}

// WithDecay sets the decay time in seconds (default 0).
func WithDecay(seconds float32) Option {
	return func(cfg *config) error {
		if err := validTime("decay", seconds); err != nil {
			return err
		}
		cfg.decay = seconds

		return nil
	}
}

// WithSustain sets the sustain level in [0, 1] (default 1).
func WithSustain(level float32) Option {
	return func(cfg *config) error {
		if math.IsNaN(float64(level)) || level < 0 || level > 1 {
			return fmt.Errorf("envelope: sustain must be in [0, 1]: %f", level)
		}
		cfg.sustain = level

		return nil
	}
}

// WithRelease sets the release time in seconds (default 0).
func WithRelease(seconds float32) Option {
	return func(cfg *config) error {
		if err := validTime("release", seconds); err != nil {
			return err
		}
		cfg.release = seconds

		return nil
	}
}

// WithSkipSustain makes the envelope go straight from decay to release.
func WithSkipSustain(on bool) Option {
	return func(cfg *config) error {
		cfg.skipSustain = on
		return nil
	}
}

// WithAlwaysReachSustain makes a released gate wait for the decay stage to
// end before releasing.
func WithAlwaysReachSustain(on bool) Option {
	return func(cfg *config) error {
		cfg.alwaysReachSustain = on
		return nil
	}
}
