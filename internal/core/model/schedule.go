package model

import (
	"fmt"
	"time"
)

// Schedule describes when an event happens. It is either a RecurringSchedule
// or a WindowSchedule.
type Schedule interface {
	schedule()
}

// RecurringSchedule repeats every Cycle, anchored at Offset.
// Active is the length of the span an occurrence lasts; zero means the event
// is treated as a point-in-time start.
type RecurringSchedule struct {
	Cycle  time.Duration
	Offset time.Time
	Active time.Duration
}

// Window is a single start/end span of a festival.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowSchedule lists explicit, ordered occurrence windows.
type WindowSchedule struct {
	Windows []Window
}

func (RecurringSchedule) schedule() {}
func (WindowSchedule) schedule()    {}

// ConfigurationError reports an event definition whose schedule is malformed.
type ConfigurationError struct {
	EventID string
	Reason  string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("event %q: invalid schedule: %s", err.EventID, err.Reason)
}

// Validate checks the schedule invariants of an event definition.
func Validate(def EventDefinition) error {
	invalid := func(format string, args ...any) error {
		return &ConfigurationError{EventID: def.ID, Reason: fmt.Sprintf(format, args...)}
	}
	if def.ID == "" {
		return invalid("missing id")
	}

	switch schedule := def.Schedule.(type) {
	case RecurringSchedule:
		if schedule.Cycle <= 0 {
			return invalid("cycle must be positive, got %s", schedule.Cycle)
		}
		if schedule.Active < 0 || schedule.Active >= schedule.Cycle {
			return invalid("active span %s must be within [0, %s)", schedule.Active, schedule.Cycle)
		}
	case WindowSchedule:
		for i, window := range schedule.Windows {
			if !window.Start.Before(window.End) {
				return invalid("window %d starts at or after its end", i)
			}
			if i > 0 && window.Start.Before(schedule.Windows[i-1].End) {
				return invalid("window %d overlaps or precedes window %d", i, i-1)
			}
		}
	case nil:
		return invalid("no schedule")
	default:
		return invalid("unknown schedule kind %T", schedule)
	}
	return nil
}
