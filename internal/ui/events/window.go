package events

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"festwatch/internal/core/model"
	"festwatch/internal/core/scheduler"
)

// Controller applies user choices made in the window.
type Controller interface {
	SetEnabled(eventID string, enabled bool) error
	SetCategoryEnabled(categoryID int, enabled bool)
	Enabled(eventID string) bool
	SetLeadTime(minutes int) error
	LeadTime() int
}

type eventRow struct {
	categoryID int
	check      *widget.Check
	location   *widget.Label
	countdown  *widget.Label
}

// Window lists the catalog grouped by expansion with per-event reminder
// toggles and live countdowns.
type Window struct {
	window     fyne.Window
	catalog    model.Catalog
	controller Controller
	logger     *zap.SugaredLogger
	leadTime   *widget.Select
	tabs       *container.AppTabs
	categories map[int]*widget.Check
	rows       map[string]*eventRow
	// syncing suppresses OnChanged callbacks while checks are set from state.
	syncing bool
}

// New creates the event window. It stays hidden until Show.
func New(app fyne.App, catalog model.Catalog, controller Controller, logger *zap.SugaredLogger) *Window {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	events := &Window{
		window:     app.NewWindow("festwatch"),
		catalog:    catalog,
		controller: controller,
		logger:     logger,
		categories: make(map[int]*widget.Check),
		rows:       make(map[string]*eventRow),
	}

	options := make([]string, len(model.LeadTimeOptions))
	for i, minutes := range model.LeadTimeOptions {
		options[i] = strconv.Itoa(minutes)
	}
	events.leadTime = widget.NewSelect(options, events.handleLeadTime)
	events.syncing = true
	events.leadTime.SetSelected(strconv.Itoa(controller.LeadTime()))
	events.syncing = false

	leadRow := container.NewHBox(
		widget.NewLabel("Remind me"),
		events.leadTime,
		widget.NewLabel("minutes before an event starts"),
		layout.NewSpacer(),
	)

	events.tabs = container.NewAppTabs()
	festivals := catalog.LastExpansionID()
	for _, expansion := range catalog.Expansions {
		content := container.NewVScroll(events.buildExpansion(expansion))
		if expansion.ID == festivals {
			events.tabs.Append(container.NewTabItemWithIcon(expansion.Name, theme.HistoryIcon(), content))
			continue
		}
		events.tabs.Append(container.NewTabItem(expansion.Name, content))
	}

	events.window.SetContent(container.NewBorder(leadRow, nil, nil, nil, events.tabs))
	events.window.Resize(fyne.NewSize(640, 520))
	events.window.SetCloseIntercept(func() {
		events.window.Hide()
	})

	events.syncChecks()
	return events
}

func (events *Window) buildExpansion(expansion model.Expansion) fyne.CanvasObject {
	content := container.NewVBox()
	for _, category := range events.catalog.CategoriesOf(expansion.ID) {
		if category.Toggleable {
			categoryID := category.ID
			check := widget.NewCheck(category.Name, func(enabled bool) {
				events.handleCategory(categoryID, enabled)
			})
			check.TextStyle = fyne.TextStyle{Bold: true}
			events.categories[category.ID] = check
			content.Add(check)
		} else {
			content.Add(widget.NewLabelWithStyle(category.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		}

		grid := container.NewGridWithColumns(3)
		for _, def := range events.catalog.EventsOf(category.ID) {
			name, location := def.Label(category.Name)
			eventID := def.ID
			row := &eventRow{
				categoryID: category.ID,
				check: widget.NewCheck(name, func(enabled bool) {
					events.handleEvent(eventID, enabled)
				}),
				location:  widget.NewLabel(location),
				countdown: widget.NewLabel(""),
			}
			events.rows[def.ID] = row
			grid.Add(row.check)
			grid.Add(row.location)
			grid.Add(row.countdown)
		}
		content.Add(grid)
		content.Add(widget.NewSeparator())
	}
	return content
}

// Show displays the window.
func (events *Window) Show() {
	events.window.Show()
	events.window.RequestFocus()
}

// Update refreshes countdown labels and checks. Call it on the fyne goroutine.
func (events *Window) Update(countdowns []scheduler.Countdown) {
	for _, line := range countdowns {
		row, ok := events.rows[line.EventID]
		if !ok {
			continue
		}
		row.countdown.SetText(line.Text)
	}
	events.syncChecks()
}

// SetLeadTime selects minutes in the dropdown without notifying the controller.
func (events *Window) SetLeadTime(minutes int) {
	events.syncing = true
	events.leadTime.SetSelected(strconv.Itoa(minutes))
	events.syncing = false
}

func (events *Window) handleLeadTime(selected string) {
	if events.syncing {
		return
	}
	minutes, err := strconv.Atoi(selected)
	if err != nil {
		return
	}
	if err := events.controller.SetLeadTime(minutes); err != nil {
		events.logger.Errorw("set lead time", "minutes", minutes, "err", err)
	}
}

func (events *Window) handleEvent(eventID string, enabled bool) {
	if events.syncing {
		return
	}
	if err := events.controller.SetEnabled(eventID, enabled); err != nil {
		events.logger.Errorw("toggle event", "event", eventID, "err", err)
	}
	events.syncChecks()
}

func (events *Window) handleCategory(categoryID int, enabled bool) {
	if events.syncing {
		return
	}
	events.controller.SetCategoryEnabled(categoryID, enabled)
	events.syncChecks()
}

// syncChecks mirrors controller state into the checks. A category check is
// on when all of its events are on.
func (events *Window) syncChecks() {
	events.syncing = true
	defer func() { events.syncing = false }()

	allEnabled := make(map[int]bool, len(events.categories))
	for categoryID := range events.categories {
		allEnabled[categoryID] = true
	}
	for eventID, row := range events.rows {
		enabled := events.controller.Enabled(eventID)
		if row.check.Checked != enabled {
			row.check.SetChecked(enabled)
		}
		if !enabled {
			allEnabled[row.categoryID] = false
		}
	}
	for categoryID, check := range events.categories {
		if check.Checked != allEnabled[categoryID] {
			check.SetChecked(allEnabled[categoryID])
		}
	}
}
