package scheduler

import (
	"time"

	"festwatch/internal/core/model"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventCountdowns   EventType = "countdowns"
	EventNotified     EventType = "notified"
	EventToggled      EventType = "toggled"
	EventTriggerError EventType = "trigger_error"
	EventStoreError   EventType = "store_error"
)

// Countdown is the display line of one event for a single tick.
type Countdown struct {
	EventID    string
	CategoryID int
	Name       string
	Location   string
	Enabled    bool
	Occurrence model.Occurrence
	Text       string
}

// Event represents a scheduler update for observers.
type Event struct {
	Type       EventType
	EventID    string
	Title      string
	Message    string
	Enabled    bool
	Countdowns []Countdown
	At         time.Time
}
