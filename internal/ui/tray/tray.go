package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/systray"

	"kitkattimer/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnInterval func(model.BreakInterval)
	OnAbout    func()
	OnExit     func()
}

// Icons are the tray images for the present and away states.
type Icons struct {
	Active fyne.Resource
	Away   fyne.Resource
}

// Host is the part of desktop.App the tray needs.
type Host interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Manager handles system tray state. Its exported setters may be called from
// any goroutine; they hop onto the fyne main thread.
type Manager struct {
	app           Host
	appName       string
	setTooltip    func(string)
	icons         Icons
	callbacks     Callbacks
	menu          *fyne.Menu
	statusItem    *fyne.MenuItem
	intervalItems []*fyne.MenuItem
	intervals     []model.BreakInterval
}

// New creates the tray menu with interval checked.
func New(app Host, appName string, icons Icons, interval model.BreakInterval, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		appName:    appName,
		setTooltip: systray.SetTooltip,
		icons:      icons,
		callbacks:  callbacks,
		intervals:  model.Presets(),
	}

	manager.statusItem = fyne.NewMenuItem(appName, nil)
	manager.statusItem.Disabled = true

	for _, preset := range manager.intervals {
		preset := preset
		item := fyne.NewMenuItem(preset.Label(), func() {
			if manager.callbacks.OnInterval != nil {
				manager.callbacks.OnInterval(preset)
			}
		})
		manager.intervalItems = append(manager.intervalItems, item)
	}
	remindAfter := fyne.NewMenuItem("Remind me after", nil)
	remindAfter.ChildMenu = fyne.NewMenu("", manager.intervalItems...)

	about := fyne.NewMenuItem("About", func() {
		if manager.callbacks.OnAbout != nil {
			manager.callbacks.OnAbout()
		}
	})

	exit := fyne.NewMenuItem("Exit", func() {
		if manager.callbacks.OnExit != nil {
			manager.callbacks.OnExit()
		}
	})
	exit.IsQuit = true

	manager.menu = fyne.NewMenu(appName, manager.statusItem, fyne.NewMenuItemSeparator(), remindAfter, about, exit)
	manager.checkInterval(interval)

	app.SetSystemTrayMenu(manager.menu)
	if icons.Active != nil {
		app.SetSystemTrayIcon(icons.Active)
	}
	return manager
}

// SetStatus updates the status item and the tooltip.
func (manager *Manager) SetStatus(status string) {
	fyne.Do(func() {
		manager.applyStatus(status)
	})
}

// applyStatus reinstalls the menu only when the label changed, so an open
// submenu survives the per-second status updates. It reports whether it did.
func (manager *Manager) applyStatus(status string) bool {
	if manager.statusItem.Label == status {
		return false
	}
	manager.statusItem.Label = status
	manager.setTooltip(manager.appName + ": " + status)
	manager.refreshMenu()
	return true
}

// SetAway swaps the tray icon.
func (manager *Manager) SetAway(away bool) {
	icon := manager.icons.Active
	if away {
		icon = manager.icons.Away
	}
	if icon == nil {
		return
	}
	fyne.Do(func() {
		manager.app.SetSystemTrayIcon(icon)
	})
}

// SetInterval moves the check mark to interval.
func (manager *Manager) SetInterval(interval model.BreakInterval) {
	fyne.Do(func() {
		manager.checkInterval(interval)
		manager.refreshMenu()
	})
}

func (manager *Manager) checkInterval(interval model.BreakInterval) {
	for index, item := range manager.intervalItems {
		item.Checked = manager.intervals[index] == interval
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}
