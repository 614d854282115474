package events

import (
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festwatch/internal/core/model"
	"festwatch/internal/core/scheduler"
)

type fakeController struct {
	catalog  model.Catalog
	enabled  map[string]bool
	leadTime int
	toggles  []string
	failNext bool
}

func newFakeController(catalog model.Catalog) *fakeController {
	return &fakeController{catalog: catalog, enabled: make(map[string]bool), leadTime: model.DefaultLeadTime}
}

func (controller *fakeController) SetEnabled(eventID string, enabled bool) error {
	if controller.failNext {
		controller.failNext = false
		return errors.New("unknown event")
	}
	controller.toggles = append(controller.toggles, eventID)
	controller.enabled[eventID] = enabled
	return nil
}

func (controller *fakeController) SetCategoryEnabled(categoryID int, enabled bool) {
	for _, def := range controller.catalog.EventsOf(categoryID) {
		controller.enabled[def.ID] = enabled
	}
}

func (controller *fakeController) Enabled(eventID string) bool {
	return controller.enabled[eventID]
}

func (controller *fakeController) SetLeadTime(minutes int) error {
	controller.leadTime = minutes
	return nil
}

func (controller *fakeController) LeadTime() int {
	return controller.leadTime
}

func testCatalog() model.Catalog {
	offset := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.Catalog{
		Expansions: []model.Expansion{{ID: 1, Name: "Core Tyria"}, {ID: 9, Name: "Festivals"}},
		Categories: []model.Category{
			{ID: 1, ExpansionID: 1, Name: "World Bosses", Toggleable: true},
			{ID: 2, ExpansionID: 1, Name: "Verdant Brink"},
			{ID: 90, ExpansionID: 9, Name: "Festivals", Toggleable: true},
		},
		Events: []model.EventDefinition{
			{ID: "behemoth", Name: "Shadow Behemoth", CategoryID: 1, MapName: "Queensdale", Schedule: model.RecurringSchedule{Cycle: 2 * time.Hour, Offset: offset}},
			{ID: "jormag", Name: "Claw of Jormag", CategoryID: 1, MapName: "Frostgorge Sound", Schedule: model.RecurringSchedule{Cycle: 3 * time.Hour, Offset: offset}},
			{ID: "night", Name: "Night Bosses", CategoryID: 2, MapName: "Verdant Brink", WaypointName: "Jaka Itzel Waypoint", Schedule: model.RecurringSchedule{Cycle: 2 * time.Hour, Offset: offset}},
			{ID: "halloween", Name: "Halloween", CategoryID: 90, Schedule: model.WindowSchedule{Windows: []model.Window{{Start: offset, End: offset.Add(time.Hour)}}}},
		},
	}
}

func newTestWindow(t *testing.T) (*Window, *fakeController) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	controller := newFakeController(testCatalog())
	controller.leadTime = 20
	return New(app, testCatalog(), controller, nil), controller
}

func TestWindowLayout(t *testing.T) {
	events, _ := newTestWindow(t)

	require.Len(t, events.tabs.Items, 2)
	assert.Equal(t, "Core Tyria", events.tabs.Items[0].Text)
	assert.Equal(t, "Festivals", events.tabs.Items[1].Text)
	assert.Nil(t, events.tabs.Items[0].Icon)
	assert.NotNil(t, events.tabs.Items[1].Icon)
	assert.Equal(t, "20", events.leadTime.Selected)

	require.Len(t, events.rows, 4)
	assert.Contains(t, events.categories, 1)
	assert.NotContains(t, events.categories, 2)

	night := events.rows["night"]
	assert.Equal(t, "Night Bosses", night.check.Text)
	assert.Equal(t, "Jaka Itzel Waypoint", night.location.Text)
	assert.Equal(t, "Queensdale", events.rows["behemoth"].location.Text)
}

func TestEventCheckToggles(t *testing.T) {
	events, controller := newTestWindow(t)

	test.Tap(events.rows["behemoth"].check)
	assert.Equal(t, []string{"behemoth"}, controller.toggles)
	assert.True(t, controller.enabled["behemoth"])
	assert.False(t, events.categories[1].Checked)

	test.Tap(events.rows["jormag"].check)
	assert.True(t, events.categories[1].Checked)
}

func TestCategoryCheckTogglesEvents(t *testing.T) {
	events, controller := newTestWindow(t)

	test.Tap(events.categories[1])
	assert.True(t, controller.enabled["behemoth"])
	assert.True(t, controller.enabled["jormag"])
	assert.True(t, events.rows["behemoth"].check.Checked)
	assert.True(t, events.rows["jormag"].check.Checked)
	assert.False(t, events.rows["night"].check.Checked)
	assert.Empty(t, controller.toggles)

	test.Tap(events.categories[1])
	assert.False(t, controller.enabled["behemoth"])
	assert.False(t, events.rows["jormag"].check.Checked)
}

func TestRejectedToggleIsReverted(t *testing.T) {
	events, controller := newTestWindow(t)
	controller.failNext = true

	test.Tap(events.rows["halloween"].check)
	assert.False(t, events.rows["halloween"].check.Checked)
}

func TestLeadTimeSelection(t *testing.T) {
	events, controller := newTestWindow(t)

	events.leadTime.SetSelected("5")
	assert.Equal(t, 5, controller.leadTime)

	events.SetLeadTime(30)
	assert.Equal(t, "30", events.leadTime.Selected)
	assert.Equal(t, 5, controller.leadTime)
}

func TestUpdateCountdowns(t *testing.T) {
	events, controller := newTestWindow(t)
	controller.enabled["night"] = true

	events.Update([]scheduler.Countdown{
		{EventID: "behemoth", Text: "Starting in 1 hour"},
		{EventID: "night", Text: "Ending in less than an hour"},
		{EventID: "missing", Text: "ignored"},
	})

	assert.Equal(t, "Starting in 1 hour", events.rows["behemoth"].countdown.Text)
	assert.Equal(t, "Ending in less than an hour", events.rows["night"].countdown.Text)
	assert.Empty(t, events.rows["halloween"].countdown.Text)
	assert.True(t, events.rows["night"].check.Checked)
}
