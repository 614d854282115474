package model

import "time"

// Token identifies one occurrence boundary. It is the boundary instant in Unix
// milliseconds; zero means no occurrence has been notified yet.
type Token int64

// TokenOf returns the token for a boundary instant.
func TokenOf(boundary time.Time) Token {
	return Token(boundary.UnixMilli())
}

// Tag classifies an occurrence boundary.
type Tag string

const (
	TagNone          Tag = "none"
	TagUpcoming      Tag = "upcoming"
	TagOngoingEnding Tag = "ongoing_ending"
)

// Occurrence is the next boundary of an event relative to a reference instant.
type Occurrence struct {
	Boundary time.Time
	Tag      Tag
	Token    Token
}

// Ongoing reports whether the boundary is the end of a running span.
func (occurrence Occurrence) Ongoing() bool {
	return occurrence.Tag == TagOngoingEnding
}

// NotifyState is the persisted per-event notification record.
type NotifyState struct {
	EventID      string
	Enabled      bool
	LastNotified Token
}

// DefaultLeadTime is the lead time in minutes used when none is stored.
const DefaultLeadTime = 10

// LeadTimeOptions are the selectable lead times in minutes.
var LeadTimeOptions = []int{5, 10, 15, 20, 25, 30}

// ValidLeadTime reports whether minutes is one of LeadTimeOptions.
func ValidLeadTime(minutes int) bool {
	for _, option := range LeadTimeOptions {
		if option == minutes {
			return true
		}
	}
	return false
}

// LeadTimeDuration converts lead time minutes to a duration.
func LeadTimeDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
