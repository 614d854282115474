package tracker

import (
	"testing"
	"time"

	"festwatch/internal/core/model"
	"festwatch/internal/core/occurrence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	midnight = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	schedule = model.RecurringSchedule{Cycle: 2 * time.Hour, Offset: midnight}
	lead     = 15 * time.Minute
)

func at(hour, minute int) time.Time {
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestEvaluateDueWindow(t *testing.T) {
	state := model.NotifyState{EventID: "boss", Enabled: true}

	assert.Equal(t, StateIdle, Evaluate(state, occurrence.Next(schedule, at(1, 40)), at(1, 40), lead))
	assert.Equal(t, StateDue, Evaluate(state, occurrence.Next(schedule, at(1, 45)), at(1, 45), lead))
	assert.Equal(t, StateDue, Evaluate(state, occurrence.Next(schedule, at(1, 50)), at(1, 50), lead))
}

func TestEvaluateDisabledStaysIdle(t *testing.T) {
	state := model.NotifyState{EventID: "boss"}

	assert.Equal(t, StateIdle, Evaluate(state, occurrence.Next(schedule, at(1, 50)), at(1, 50), lead))
}

func TestEvaluateNoOccurrence(t *testing.T) {
	state := model.NotifyState{EventID: "fest", Enabled: true}

	assert.Equal(t, StateIdle, Evaluate(state, model.Occurrence{Tag: model.TagNone}, at(1, 50), lead))
}

func TestObserveFiresOncePerOccurrence(t *testing.T) {
	tracker := New()
	tracker.Put(model.NotifyState{EventID: "boss", Enabled: true})

	fired := 0
	for minute := 40; minute < 60; minute++ {
		now := at(1, minute)
		decision := tracker.Observe("boss", occurrence.Next(schedule, now), now, lead)
		if decision.Fire {
			fired++
		}
	}
	assert.Equal(t, 1, fired)

	state, ok := tracker.State("boss")
	require.True(t, ok)
	assert.Equal(t, model.TokenOf(at(2, 0)), state.LastNotified)
}

func TestObserveResetsOnNewOccurrence(t *testing.T) {
	tracker := New()
	tracker.Put(model.NotifyState{EventID: "boss", Enabled: true})

	first := tracker.Observe("boss", occurrence.Next(schedule, at(1, 50)), at(1, 50), lead)
	require.True(t, first.Fire)

	again := tracker.Observe("boss", occurrence.Next(schedule, at(1, 55)), at(1, 55), lead)
	assert.Equal(t, StateFired, again.State)
	assert.False(t, again.Fire)

	idle := tracker.Observe("boss", occurrence.Next(schedule, at(2, 1)), at(2, 1), lead)
	assert.Equal(t, StateIdle, idle.State)

	next := tracker.Observe("boss", occurrence.Next(schedule, at(3, 50)), at(3, 50), lead)
	assert.True(t, next.Fire)
}

func TestObserveReplaySafeAfterRestart(t *testing.T) {
	tracker := New()
	tracker.Put(model.NotifyState{EventID: "boss", Enabled: true, LastNotified: model.TokenOf(at(2, 0))})

	decision := tracker.Observe("boss", occurrence.Next(schedule, at(1, 52)), at(1, 52), lead)
	assert.Equal(t, StateFired, decision.State)
	assert.False(t, decision.Fire)
}

func TestReenableDoesNotBackfire(t *testing.T) {
	tracker := New()
	tracker.Put(model.NotifyState{EventID: "boss", Enabled: true})
	tracker.SetEnabled("boss", false)

	for minute := 45; minute < 60; minute++ {
		now := at(1, minute)
		assert.False(t, tracker.Observe("boss", occurrence.Next(schedule, now), now, lead).Fire)
	}

	_, changed := tracker.SetEnabled("boss", true)
	require.True(t, changed)

	now := at(2, 5)
	decision := tracker.Observe("boss", occurrence.Next(schedule, now), now, lead)
	assert.False(t, decision.Fire)
	assert.Equal(t, StateIdle, decision.State)
}

func TestUnknownEventStaysIdle(t *testing.T) {
	tracker := New()

	decision := tracker.Observe("ghost", occurrence.Next(schedule, at(1, 50)), at(1, 50), lead)
	assert.Equal(t, StateIdle, decision.State)
}

func TestDirtyTracking(t *testing.T) {
	tracker := New()
	tracker.Put(model.NotifyState{EventID: "b", Enabled: true})
	tracker.Put(model.NotifyState{EventID: "a"})
	assert.Empty(t, tracker.Dirty())

	_, changed := tracker.SetEnabled("a", false)
	assert.False(t, changed)

	tracker.SetEnabled("a", true)
	tracker.MarkDirty("b")
	dirty := tracker.Dirty()
	require.Len(t, dirty, 2)
	assert.Equal(t, "a", dirty[0].EventID)

	tracker.MarkClean("a")
	tracker.MarkClean("b")
	assert.Empty(t, tracker.Dirty())
	assert.Len(t, tracker.States(), 2)
}
