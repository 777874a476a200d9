// Package achievement tracks trigger, counter and timer achievements keyed by
// title and persists unlocks through a Store.
package achievement

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknown      = errors.New("achievement: unknown title")
	ErrDuplicate    = errors.New("achievement: duplicate title")
	ErrKindMismatch = errors.New("achievement: kind mismatch")
	ErrInvalid      = errors.New("achievement: invalid definition")
)

type Kind string

const (
	KindTrigger Kind = "trigger"
	KindCounter Kind = "counter"
	KindTimer   Kind = "timer"
)

// TimerMode decides how a timer achievement is won.
type TimerMode string

const (
	// TimerBeat unlocks when the timer is stopped at or under Limit.
	TimerBeat TimerMode = "beat"
	// TimerEndure unlocks once the timer has run for Limit without being
	// stopped or cancelled.
	TimerEndure TimerMode = "endure"
)

type Definition struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Kind        Kind      `yaml:"kind"`
	Target      int       `yaml:"target"`
	Limit       float64   `yaml:"limit"`
	Mode        TimerMode `yaml:"mode"`
	Hidden      bool      `yaml:"hidden"`
	PerScene    bool      `yaml:"per_scene"`
}

func (d Definition) validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalid)
	}
	switch d.Kind {
	case KindTrigger:
	case KindCounter:
		if d.Target <= 0 {
			return fmt.Errorf("%w: counter %q needs a positive target", ErrInvalid, d.Title)
		}
	case KindTimer:
		if d.Limit <= 0 {
			return fmt.Errorf("%w: timer %q needs a positive limit", ErrInvalid, d.Title)
		}
		switch d.Mode {
		case TimerBeat, TimerEndure:
		default:
			return fmt.Errorf("%w: timer %q has unknown mode %q", ErrInvalid, d.Title, d.Mode)
		}
	default:
		return fmt.Errorf("%w: %q has unknown kind %q", ErrInvalid, d.Title, d.Kind)
	}
	return nil
}

// Status is a snapshot of one achievement's progress.
type Status struct {
	Definition
	Unlocked   bool
	UnlockedAt time.Time
	Count      int
	Elapsed    float64
	Running    bool
	// Failed is set when a beat timer ran past its limit; it clears on the
	// next StartTimer or scene reset.
	Failed bool
}

// Progress returns completion in [0, 1].
func (s Status) Progress() float64 {
	if s.Unlocked {
		return 1
	}
	switch s.Kind {
	case KindCounter:
		return float64(s.Count) / float64(s.Target)
	case KindTimer:
		if s.Mode == TimerEndure {
			return min(s.Elapsed/s.Limit, 1)
		}
	}
	return 0
}
