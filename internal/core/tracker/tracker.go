// Package tracker decides when an event occurrence is due for a notification
// and remembers which occurrence was last notified.
package tracker

import (
	"sort"
	"time"

	"festwatch/internal/core/model"
)

// State is the notification state of one event occurrence.
type State string

const (
	StateIdle  State = "idle"
	StateDue   State = "due"
	StateFired State = "fired"
)

// Evaluate classifies an occurrence for a notify state at now.
func Evaluate(state model.NotifyState, occurrence model.Occurrence, now time.Time, lead time.Duration) State {
	if !state.Enabled || occurrence.Tag == model.TagNone {
		return StateIdle
	}
	if occurrence.Token == state.LastNotified {
		return StateFired
	}
	remaining := occurrence.Boundary.Sub(now)
	if remaining > 0 && remaining <= lead {
		return StateDue
	}
	return StateIdle
}

// Decision is the outcome of observing an occurrence.
type Decision struct {
	State State
	Fire  bool
}

type entry struct {
	state model.NotifyState
	dirty bool
}

// Tracker owns the NotifyState of every known event.
// It is not safe for concurrent use; callers serialize access.
type Tracker struct {
	entries map[string]*entry
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{entries: make(map[string]*entry)}
}

// Put registers or replaces the state of an event.
func (tracker *Tracker) Put(state model.NotifyState) {
	tracker.entries[state.EventID] = &entry{state: state}
}

// State returns the current state of an event.
func (tracker *Tracker) State(eventID string) (model.NotifyState, bool) {
	current, ok := tracker.entries[eventID]
	if !ok {
		return model.NotifyState{}, false
	}
	return current.state, true
}

// SetEnabled updates the enabled flag and reports whether it changed.
// Occurrences that passed while the event was disabled are never revisited:
// the next Observe only sees the occurrence computed for its own tick.
func (tracker *Tracker) SetEnabled(eventID string, enabled bool) (model.NotifyState, bool) {
	current, ok := tracker.entries[eventID]
	if !ok {
		current = &entry{state: model.NotifyState{EventID: eventID}}
		tracker.entries[eventID] = current
	}
	if ok && current.state.Enabled == enabled {
		return current.state, false
	}
	current.state.Enabled = enabled
	current.dirty = true
	return current.state, true
}

// Observe evaluates the occurrence of an event and, when it is due, records
// its token as notified before returning. A second Observe of the same
// occurrence therefore reports StateFired and never fires again.
func (tracker *Tracker) Observe(eventID string, occurrence model.Occurrence, now time.Time, lead time.Duration) Decision {
	current, ok := tracker.entries[eventID]
	if !ok {
		return Decision{State: StateIdle}
	}

	state := Evaluate(current.state, occurrence, now, lead)
	if state != StateDue {
		return Decision{State: state}
	}

	current.state.LastNotified = occurrence.Token
	current.dirty = true
	return Decision{State: StateDue, Fire: true}
}

// MarkDirty flags an event whose state still needs to be persisted.
func (tracker *Tracker) MarkDirty(eventID string) {
	if current, ok := tracker.entries[eventID]; ok {
		current.dirty = true
	}
}

// MarkClean clears the persistence flag of an event.
func (tracker *Tracker) MarkClean(eventID string) {
	if current, ok := tracker.entries[eventID]; ok {
		current.dirty = false
	}
}

// Dirty returns the states that have not been persisted, ordered by event ID.
func (tracker *Tracker) Dirty() []model.NotifyState {
	var states []model.NotifyState
	for _, current := range tracker.entries {
		if current.dirty {
			states = append(states, current.state)
		}
	}
	sortStates(states)
	return states
}

// States returns every tracked state ordered by event ID.
func (tracker *Tracker) States() []model.NotifyState {
	states := make([]model.NotifyState, 0, len(tracker.entries))
	for _, current := range tracker.entries {
		states = append(states, current.state)
	}
	sortStates(states)
	return states
}

func sortStates(states []model.NotifyState) {
	sort.Slice(states, func(i, j int) bool {
		return states[i].EventID < states[j].EventID
	})
}
