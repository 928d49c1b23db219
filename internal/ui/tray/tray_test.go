package tray

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"

	"kitkattimer/internal/core/model"
)

type fakeHost struct {
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (host *fakeHost) SetSystemTrayMenu(menu *fyne.Menu) { host.menus = append(host.menus, menu) }

func (host *fakeHost) SetSystemTrayIcon(icon fyne.Resource) { host.icons = append(host.icons, icon) }

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("menu item %q not found", label)
	return nil
}

func checkedLabels(items []*fyne.MenuItem) []string {
	var labels []string
	for _, item := range items {
		if item.Checked {
			labels = append(labels, item.Label)
		}
	}
	return labels
}

func TestNewBuildsMenu(t *testing.T) {
	host := &fakeHost{}
	active := fyne.NewStaticResource("active.png", []byte("a"))

	New(host, "KitKatTimer", Icons{Active: active}, model.DefaultInterval, Callbacks{})

	if len(host.menus) != 1 {
		t.Fatalf("expected the menu to be installed once but got %d", len(host.menus))
	}
	if len(host.icons) != 1 || host.icons[0] != active {
		t.Errorf("expected the active icon to be installed but got %v", host.icons)
	}

	menu := host.menus[0]
	remind := findItem(t, menu, "Remind me after")
	if remind.ChildMenu == nil {
		t.Fatal("expected an interval submenu")
	}
	want := []string{"30 minutes", "1 hour", "2 hours", "3 hours", "4 hours"}
	if len(remind.ChildMenu.Items) != len(want) {
		t.Fatalf("expected %d interval items but got %d", len(want), len(remind.ChildMenu.Items))
	}
	for i, item := range remind.ChildMenu.Items {
		if item.Label != want[i] {
			t.Errorf("interval[%d]: expected %q but got %q", i, want[i], item.Label)
		}
	}
	if got := checkedLabels(remind.ChildMenu.Items); len(got) != 1 || got[0] != "1 hour" {
		t.Errorf("expected only the default interval checked but got %v", got)
	}

	findItem(t, menu, "About")
	if exit := findItem(t, menu, "Exit"); !exit.IsQuit {
		t.Error("expected Exit to be the quit item")
	}
}

func TestMenuActionsInvokeCallbacks(t *testing.T) {
	host := &fakeHost{}
	var selected []model.BreakInterval
	aboutShown, exited := 0, 0

	New(host, "KitKatTimer", Icons{}, model.DefaultInterval, Callbacks{
		OnInterval: func(interval model.BreakInterval) { selected = append(selected, interval) },
		OnAbout:    func() { aboutShown++ },
		OnExit:     func() { exited++ },
	})
	menu := host.menus[0]

	findItem(t, menu, "Remind me after").ChildMenu.Items[3].Action()
	findItem(t, menu, "About").Action()
	findItem(t, menu, "Exit").Action()

	if len(selected) != 1 || selected[0] != model.BreakInterval(3*time.Hour) {
		t.Errorf("expected 3h selection but got %v", selected)
	}
	if aboutShown != 1 || exited != 1 {
		t.Errorf("expected one about and one exit call but got %d and %d", aboutShown, exited)
	}
}

func TestCheckIntervalIsSingleSelect(t *testing.T) {
	host := &fakeHost{}
	manager := New(host, "KitKatTimer", Icons{}, model.DefaultInterval, Callbacks{})

	manager.checkInterval(model.BreakInterval(30 * time.Minute))

	if got := checkedLabels(manager.intervalItems); len(got) != 1 || got[0] != "30 minutes" {
		t.Errorf("expected only 30 minutes checked but got %v", got)
	}
}

func TestApplyStatusSkipsUnchangedLabel(t *testing.T) {
	host := &fakeHost{}
	manager := New(host, "KitKatTimer", Icons{}, model.DefaultInterval, Callbacks{})
	var tooltips []string
	manager.setTooltip = func(tip string) { tooltips = append(tooltips, tip) }

	steps := []struct {
		status      string
		wantApplied bool
	}{
		{status: "Trying to connect", wantApplied: true},
		{status: "Trying to connect", wantApplied: false},
		{status: "It's been 5 minutes", wantApplied: true},
		{status: "It's been 5 minutes", wantApplied: false},
		{status: "It's been 5 minutes", wantApplied: false},
		{status: "It's been 6 minutes", wantApplied: true},
	}
	for index, step := range steps {
		if applied := manager.applyStatus(step.status); applied != step.wantApplied {
			t.Errorf("step %d (%q): expected applied=%v but got %v", index, step.status, step.wantApplied, applied)
		}
		if manager.statusItem.Label != step.status {
			t.Errorf("step %d: expected label %q but got %q", index, step.status, manager.statusItem.Label)
		}
	}

	// One install from New plus one per changed label.
	if len(host.menus) != 4 {
		t.Errorf("expected 4 menu installs but got %d", len(host.menus))
	}
	want := []string{"KitKatTimer: Trying to connect", "KitKatTimer: It's been 5 minutes", "KitKatTimer: It's been 6 minutes"}
	if len(tooltips) != len(want) {
		t.Fatalf("expected tooltips %v but got %v", want, tooltips)
	}
	for index := range want {
		if tooltips[index] != want[index] {
			t.Errorf("expected tooltip %q but got %q", want[index], tooltips[index])
		}
	}
}
