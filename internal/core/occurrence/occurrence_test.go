package occurrence

import (
	"math/rand"
	"testing"
	"time"

	"festwatch/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var midnight = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestRecurringNextBoundary(t *testing.T) {
	schedule := model.RecurringSchedule{Cycle: 2 * time.Hour, Offset: midnight}

	occ := Next(schedule, at(1, 50))
	assert.Equal(t, at(2, 0), occ.Boundary)
	assert.Equal(t, model.TagUpcoming, occ.Tag)
	assert.Equal(t, model.TokenOf(at(2, 0)), occ.Token)
}

func TestRecurringExactBoundaryMovesForward(t *testing.T) {
	schedule := model.RecurringSchedule{Cycle: 2 * time.Hour, Offset: midnight}

	occ := Next(schedule, at(4, 0))
	assert.Equal(t, at(6, 0), occ.Boundary)
}

func TestRecurringBeforeOffset(t *testing.T) {
	schedule := model.RecurringSchedule{Cycle: 3 * time.Hour, Offset: at(12, 0)}

	occ := Next(schedule, at(1, 0))
	assert.Equal(t, at(3, 0), occ.Boundary)
	assert.Equal(t, model.TagUpcoming, occ.Tag)
}

func TestRecurringProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		cycle := time.Duration(1+rng.Intn(24*60)) * time.Minute
		offset := midnight.Add(time.Duration(rng.Int63n(int64(240 * time.Hour))))
		ref := midnight.Add(time.Duration(rng.Int63n(int64(480*time.Hour))) - 120*time.Hour)

		occ := Next(model.RecurringSchedule{Cycle: cycle, Offset: offset}, ref)
		require.True(t, occ.Boundary.After(ref), "boundary %s not after ref %s", occ.Boundary, ref)
		require.Zero(t, occ.Boundary.Sub(offset)%cycle)
		require.True(t, occ.Boundary.Sub(ref) <= cycle)
	}
}

func TestRecurringActiveSpan(t *testing.T) {
	schedule := model.RecurringSchedule{Cycle: 2 * time.Hour, Offset: midnight, Active: 15 * time.Minute}

	occ := Next(schedule, at(2, 5))
	assert.Equal(t, model.TagOngoingEnding, occ.Tag)
	assert.Equal(t, at(2, 15), occ.Boundary)

	occ = Next(schedule, at(2, 15))
	assert.Equal(t, model.TagUpcoming, occ.Tag)
	assert.Equal(t, at(4, 0), occ.Boundary)

	occ = Next(schedule, at(2, 0))
	assert.True(t, occ.Ongoing())
}

func TestWindowSchedule(t *testing.T) {
	schedule := model.WindowSchedule{Windows: []model.Window{
		{Start: at(10, 0), End: at(11, 0)},
		{Start: at(14, 0), End: at(15, 0)},
	}}

	tests := []struct {
		name     string
		ref      time.Time
		tag      model.Tag
		boundary time.Time
	}{
		{"before all windows", at(8, 0), model.TagUpcoming, at(10, 0)},
		{"inside first window", at(10, 30), model.TagOngoingEnding, at(11, 0)},
		{"at window start", at(10, 0), model.TagOngoingEnding, at(11, 0)},
		{"between windows", at(11, 30), model.TagUpcoming, at(14, 0)},
		{"at first window end", at(11, 0), model.TagUpcoming, at(14, 0)},
		{"inside second window", at(14, 59), model.TagOngoingEnding, at(15, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := Next(schedule, tt.ref)
			assert.Equal(t, tt.tag, occ.Tag)
			assert.Equal(t, tt.boundary, occ.Boundary)
			assert.Equal(t, model.TokenOf(tt.boundary), occ.Token)
		})
	}
}

func TestWindowScheduleExhausted(t *testing.T) {
	schedule := model.WindowSchedule{Windows: []model.Window{{Start: at(10, 0), End: at(11, 0)}}}

	occ := Next(schedule, at(12, 0))
	assert.Equal(t, model.TagNone, occ.Tag)
	assert.Zero(t, occ.Token)

	assert.Equal(t, model.TagNone, Next(model.WindowSchedule{}, at(0, 0)).Tag)
}

func TestNilSchedule(t *testing.T) {
	assert.Equal(t, model.TagNone, Next(nil, midnight).Tag)
}
