package tray

import (
	"fmt"

	"fyne.io/fyne/v2"

	"festwatch/internal/core/model"
)

const menuTitle = "festwatch"

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen     func()
	OnLeadTime func(minutes int)
	OnQuit     func()
}

// Manager handles system tray state.
type Manager struct {
	app         App
	statusItem  *fyne.MenuItem
	leadItem    *fyne.MenuItem
	leadOptions map[int]*fyne.MenuItem
	callbacks   Callbacks
	statusLabel string
	menu        *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app App, callbacks Callbacks, leadTime int) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		leadOptions: make(map[int]*fyne.MenuItem),
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	options := make([]*fyne.MenuItem, 0, len(model.LeadTimeOptions))
	for _, minutes := range model.LeadTimeOptions {
		minutes := minutes
		item := fyne.NewMenuItem(fmt.Sprintf("%d minutes", minutes), func() {
			if manager.callbacks.OnLeadTime != nil {
				manager.callbacks.OnLeadTime(minutes)
			}
		})
		manager.leadOptions[minutes] = item
		options = append(options, item)
	}
	manager.leadItem = fyne.NewMenuItem("Remind me before", nil)
	manager.leadItem.ChildMenu = fyne.NewMenu("", options...)

	manager.setLeadTime(leadTime)
	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetNext shows the nearest enabled reminder, or a placeholder when ok is false.
func (manager *Manager) SetNext(name, countdownText string, ok bool) {
	if !ok {
		manager.SetStatus("no reminders enabled")
		return
	}
	manager.SetStatus(fmt.Sprintf("%s, %s", name, countdownText))
}

// SetLeadTime marks the active lead time option.
func (manager *Manager) SetLeadTime(minutes int) {
	manager.setLeadTime(minutes)
	manager.refreshMenu()
}

// Menu returns the menu currently installed in the tray.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

func (manager *Manager) setLeadTime(minutes int) {
	for option, item := range manager.leadOptions {
		item.Checked = option == minutes
	}
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Next: %s", manager.statusLabel)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Open events", func() {
			if manager.callbacks.OnOpen != nil {
				manager.callbacks.OnOpen()
			}
		}),
		manager.leadItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}
