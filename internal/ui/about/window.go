package about

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	tagline     = "\"Have a break ... have a Kit Kat!\""
	description = "KitKatTimer asks you to take a break when you have been working too long."
)

// Window is the static About box.
type Window struct {
	window fyne.Window
}

// New creates a hidden About window titled appName.
func New(app fyne.App, appName string) *Window {
	window := app.NewWindow(appName)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	okButton := widget.NewButton("OK", window.Hide)
	content := container.NewBorder(
		nil,
		container.NewHBox(layout.NewSpacer(), okButton),
		nil,
		nil,
		container.NewVBox(
			widget.NewLabelWithStyle(tagline, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel(description),
		),
	)
	window.SetContent(content)
	window.SetFixedSize(true)
	window.SetCloseIntercept(window.Hide)

	return &Window{window: window}
}

// Show displays the window.
func (about *Window) Show() {
	about.window.Show()
	about.window.RequestFocus()
}

// Window exposes the underlying fyne window so it can back the tray icon.
func (about *Window) Window() fyne.Window {
	return about.window
}
