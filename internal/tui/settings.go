package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/logger"
)

const (
	settingsPage     = "settings"
	confirmClearPage = "confirm_clear"
)

// SettingsPage manages the API key and app preferences.
type SettingsPage struct {
	app     *App
	form    *tview.Form
	message *tview.TextView
	layout  *tview.Flex
	confirm *tview.Modal

	hasKey bool
	apiKey string
}

// NewSettingsPage creates the settings page. It is built on Show.
func NewSettingsPage(app *App) *SettingsPage {
	sp := &SettingsPage{app: app}

	sp.message = tview.NewTextView()
	sp.message.SetDynamicColors(true).
		SetTextColor(app.theme.Error)

	sp.confirm = tview.NewModal().
		SetText("Clear API Key?\n\nYou'll need to enter a new API key to continue using the app.").
		AddButtons([]string{"Cancel", "Clear"}).
		SetDoneFunc(func(_ int, label string) {
			app.pages.RemovePage(confirmClearPage)
			if label == "Clear" {
				sp.clear()
				return
			}
			app.app.SetFocus(sp.form)
		})

	return sp
}

// Visible reports whether the settings page is shown.
func (sp *SettingsPage) Visible() bool {
	return sp.app.pages.HasPage(settingsPage)
}

// Show builds and displays the page for the current key state.
func (sp *SettingsPage) Show(hasKey bool) {
	sp.hasKey = hasKey
	sp.apiKey = ""
	sp.build()

	sp.app.pages.RemovePage(settingsPage)
	sp.app.pages.AddPage(settingsPage, sp.layout, true, true)
	sp.app.app.SetFocus(sp.form)
	logger.Debug("tui.settings: shown has_key=%t", hasKey)
}

// Hide removes the page and returns focus to the list.
func (sp *SettingsPage) Hide() {
	sp.app.pages.RemovePage(confirmClearPage)
	sp.app.pages.RemovePage(settingsPage)
	sp.app.app.SetFocus(sp.app.list)
}

// HandleKey processes keys while the page is shown.
func (sp *SettingsPage) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if sp.app.pages.HasPage(confirmClearPage) {
		return event
	}
	if event.Key() == tcell.KeyEscape {
		sp.app.closeSettings()
		return nil
	}
	return event
}

func (sp *SettingsPage) build() {
	a := sp.app
	sp.message.SetText("")

	sp.form = tview.NewForm()
	sp.form.SetFieldBackgroundColor(a.theme.SelectionBg).
		SetFieldTextColor(a.theme.Foreground).
		SetLabelColor(a.theme.SecondaryText).
		SetButtonBackgroundColor(a.theme.Accent).
		SetButtonTextColor(a.theme.SelectionText)

	if sp.hasKey {
		sp.form.AddTextView("API Key", "••••••••••••", 0, 1, false, false)
		sp.form.AddButton("Clear API Key", sp.confirmClear)
	} else {
		sp.form.AddPasswordField("API Key", "", 0, '•', func(text string) {
			sp.apiKey = text
		})
		if field, ok := sp.form.GetFormItemByLabel("API Key").(*tview.InputField); ok {
			field.SetPlaceholder("lin_api_...")
		}
		sp.form.AddButton("Save", sp.save)
	}

	labels, current := refreshLabels(a.prefs.AutoRefreshInterval())
	sp.form.AddDropDown("Auto-refresh", labels, current, func(_ string, index int) {
		if index < 0 || index >= len(config.AutoRefreshOptions) {
			return
		}
		a.setAutoRefresh(config.AutoRefreshOptions[index].Interval)
	})

	if a.loginItem != nil {
		sp.form.AddCheckbox("Launch at login", a.loginItem.Enabled(), func(checked bool) {
			if err := a.loginItem.SetEnabled(checked); err != nil {
				logger.ErrorWithErr(err, "tui.settings: failed to update login item")
				sp.setMessage("Failed to update login item")
			}
		})
	}

	if sp.hasKey {
		sp.form.AddButton("Close", a.closeSettings)
	}
	sp.form.AddButton("Quit", a.Stop)

	sp.form.SetBorder(true).
		SetTitle(" Settings ").
		SetBorderColor(a.theme.Accent).
		SetTitleColor(a.theme.Foreground)

	hint := tview.NewTextView()
	hint.SetDynamicColors(true).
		SetTextColor(a.theme.SecondaryText).
		SetText("Get your API key from Linear Settings → Account → API")

	content := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(sp.form, 0, 1, true).
		AddItem(sp.message, 1, 0, false).
		AddItem(hint, 1, 0, false)

	sp.layout = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(content, 16, 0, true).
			AddItem(nil, 0, 1, false), 64, 0, true).
		AddItem(nil, 0, 1, false)
	sp.layout.SetBackgroundColor(a.theme.Background)
}

// refreshLabels lists the interval choices. An interval that matches no
// choice is shown as an extra, custom entry.
func refreshLabels(current time.Duration) ([]string, int) {
	labels := make([]string, 0, len(config.AutoRefreshOptions)+1)
	selected := -1
	for i, opt := range config.AutoRefreshOptions {
		labels = append(labels, opt.Label)
		if opt.Interval == current {
			selected = i
		}
	}
	if selected < 0 {
		labels = append(labels, fmt.Sprintf("Every %s", current))
		selected = len(labels) - 1
	}
	return labels, selected
}

func (sp *SettingsPage) setMessage(text string) {
	if text == "" {
		sp.message.SetText("")
		return
	}
	sp.message.SetText(tview.Escape(text))
}

// save stores the entered key. Empty input is ignored.
func (sp *SettingsPage) save() {
	key := strings.TrimSpace(sp.apiKey)
	if key == "" {
		return
	}
	a := sp.app
	a.async(func() {
		if err := a.controller.SaveAPIKey(context.Background(), key); err != nil {
			a.QueueUpdateDraw(func() {
				sp.setMessage("Failed to save API key")
			})
		}
	})
}

func (sp *SettingsPage) confirmClear() {
	sp.app.pages.AddPage(confirmClearPage, sp.confirm, true, true)
	sp.app.app.SetFocus(sp.confirm)
}

func (sp *SettingsPage) clear() {
	a := sp.app
	a.async(func() {
		if err := a.controller.ClearAPIKey(); err != nil {
			a.QueueUpdateDraw(func() {
				sp.setMessage("Failed to clear API key")
			})
		}
	})
}
