package core

import (
	"errors"
	"time"
)

const (
	// DefaultCooldownPeriod is the minimum time between two bids of the same bidder.
	DefaultCooldownPeriod = 60 * time.Second

	// DefaultExtensionWindow is the remaining time at or below which a bid extends the deadline.
	DefaultExtensionWindow = 60 * time.Second

	// DefaultExtensionIncrement is the time after a late bid at which the auction ends.
	DefaultExtensionIncrement = 60 * time.Second
)

// ErrInvalidRules is returned for negative or fractional-second rule durations.
var ErrInvalidRules = errors.New("auction rules must be whole, non-negative seconds")

// Rules are fixed when an auction starts.
type Rules struct {
	CooldownPeriod     time.Duration
	ExtensionWindow    time.Duration
	ExtensionIncrement time.Duration
}

// DefaultRules returns 60 seconds for cooldown, extension window and extension increment.
func DefaultRules() Rules {
	return Rules{
		CooldownPeriod:     DefaultCooldownPeriod,
		ExtensionWindow:    DefaultExtensionWindow,
		ExtensionIncrement: DefaultExtensionIncrement,
	}
}

// Validate checks that all durations can be persisted as whole seconds.
func (r Rules) Validate() error {
	for _, d := range []time.Duration{r.CooldownPeriod, r.ExtensionWindow, r.ExtensionIncrement} {
		if d < 0 || d%time.Second != 0 {
			return ErrInvalidRules
		}
	}

	return nil
}

func rulesFromSeconds(cooldown, window, increment int64) Rules {
	return Rules{
		CooldownPeriod:     time.Duration(cooldown) * time.Second,
		ExtensionWindow:    time.Duration(window) * time.Second,
		ExtensionIncrement: time.Duration(increment) * time.Second,
	}
}
