// Package occurrence computes the next boundary of an event schedule.
package occurrence

import (
	"time"

	"festwatch/internal/core/model"
)

// Next returns the next boundary of schedule strictly relevant to ref.
// Schedules are assumed to have passed model.Validate.
func Next(schedule model.Schedule, ref time.Time) model.Occurrence {
	switch schedule := schedule.(type) {
	case model.RecurringSchedule:
		return nextRecurring(schedule, ref)
	case model.WindowSchedule:
		return nextWindow(schedule, ref)
	default:
		return model.Occurrence{Tag: model.TagNone}
	}
}

func nextRecurring(schedule model.RecurringSchedule, ref time.Time) model.Occurrence {
	cycles := floorDiv(ref.Sub(schedule.Offset), schedule.Cycle)
	start := schedule.Offset.Add(time.Duration(cycles) * schedule.Cycle)

	if schedule.Active > 0 && !ref.Before(start) && ref.Before(start.Add(schedule.Active)) {
		return newOccurrence(start.Add(schedule.Active), model.TagOngoingEnding)
	}
	return newOccurrence(start.Add(schedule.Cycle), model.TagUpcoming)
}

func nextWindow(schedule model.WindowSchedule, ref time.Time) model.Occurrence {
	for _, window := range schedule.Windows {
		if !ref.Before(window.End) {
			continue
		}
		if ref.Before(window.Start) {
			return newOccurrence(window.Start, model.TagUpcoming)
		}
		return newOccurrence(window.End, model.TagOngoingEnding)
	}
	return model.Occurrence{Tag: model.TagNone}
}

func newOccurrence(boundary time.Time, tag model.Tag) model.Occurrence {
	return model.Occurrence{
		Boundary: boundary,
		Tag:      tag,
		Token:    model.TokenOf(boundary),
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(elapsed, cycle time.Duration) int64 {
	quotient := int64(elapsed / cycle)
	if elapsed%cycle < 0 {
		quotient--
	}
	return quotient
}
