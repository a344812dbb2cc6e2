package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/roeyazroel/linear-inbox/internal/logger"
)

// URLOpener opens Linear links.
type URLOpener interface {
	OpenIssue(rawURL string, web bool) (bool, error)
}

// LoginItem controls launching the app at login.
type LoginItem interface {
	Enabled() bool
	SetEnabled(enabled bool) error
}

// Options wires an App to its collaborators.
type Options struct {
	Controller      *inbox.Controller
	Scheduler       *inbox.Scheduler
	Preferences     config.Preferences
	PreferencesPath string
	Opener          URLOpener
	CopyText        func(string) error
	LoginItem       LoginItem // nil hides the launch at login option
}

// App is the main application controller that manages all UI components.
type App struct {
	app        *tview.Application
	controller *inbox.Controller
	scheduler  *inbox.Scheduler
	opener     URLOpener
	copyText   func(string) error
	loginItem  LoginItem
	theme      Theme
	themeTags  ThemeTags
	commands   []Command

	// Preferences are only touched from the UI goroutine.
	prefs     config.Preferences
	prefsPath string

	// UI components
	pages      *tview.Pages
	mainLayout *tview.Flex
	header     *tview.TextView
	tabs       *tview.TextView
	banner     *tview.TextView
	list       *tview.Table
	statusBar  *tview.TextView
	settings   *SettingsPage

	// Last snapshot received from the controller (protected by stateMu)
	stateMu sync.Mutex
	state   inbox.State

	rows      []Row
	flashText string

	queueUpdateDraw func(func())
	// UI update mutex (for test safety when queueUpdateDraw executes immediately)
	uiUpdateMu sync.Mutex
	// async runs controller calls off the event loop (overridable in tests)
	async func(func())
	now   func() time.Time
}

// NewApp creates a new application instance.
func NewApp(opts Options) *App {
	prefs := opts.Preferences
	if prefs.Sections == nil {
		prefs.Sections = map[string]bool{}
	}
	if prefs.SelectedTab == "" {
		prefs.SelectedTab = config.TabMyIssues
	}
	copyText := opts.CopyText
	if copyText == nil {
		copyText = func(string) error { return nil }
	}

	app := &App{
		app:        tview.NewApplication(),
		controller: opts.Controller,
		scheduler:  opts.Scheduler,
		opener:     opts.Opener,
		copyText:   copyText,
		loginItem:  opts.LoginItem,
		theme:      DefaultTheme,
		themeTags:  NewThemeTags(DefaultTheme),
		commands:   DefaultCommands(),
		prefs:      prefs,
		prefsPath:  opts.PreferencesPath,
		pages:      tview.NewPages(),
		state:      opts.Controller.State(),
		async:      func(f func()) { go f() },
		now:        time.Now,
	}
	app.queueUpdateDraw = func(f func()) {
		app.app.QueueUpdateDraw(f)
	}

	app.buildLayout()
	app.bindGlobalKeys()
	app.settings = NewSettingsPage(app)

	app.controller.OnChange(func(s inbox.State) {
		app.QueueUpdateDraw(func() {
			app.setState(s)
			app.render()
		})
	})

	return app
}

// Run starts the application and blocks until it exits.
func (a *App) Run() error {
	a.app.SetRoot(a.pages, true).EnableMouse(true)

	if a.scheduler != nil {
		a.scheduler.SetInterval(a.prefs.AutoRefreshInterval())
		defer a.scheduler.Stop()
	}
	defer a.savePreferences()

	a.render()
	a.async(func() {
		_ = a.controller.Refresh(context.Background())
	})

	logger.Info("tui.app: started tab=%s", a.prefs.SelectedTab)
	return a.app.Run()
}

// Stop exits the event loop.
func (a *App) Stop() {
	logger.Info("tui.app: stopping")
	a.app.Stop()
}

// State returns the last controller snapshot applied to the UI.
func (a *App) State() inbox.State {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

func (a *App) setState(s inbox.State) {
	a.stateMu.Lock()
	a.state = s
	a.stateMu.Unlock()
}

// QueueUpdateDraw queues a UI update function to be run in the main thread.
func (a *App) QueueUpdateDraw(f func()) {
	if a.queueUpdateDraw != nil {
		// Serialize UI updates when test overrides queueUpdateDraw to execute immediately
		a.uiUpdateMu.Lock()
		defer a.uiUpdateMu.Unlock()
		a.queueUpdateDraw(f)
		return
	}
	a.app.QueueUpdateDraw(f)
}

func (a *App) buildLayout() {
	a.header = tview.NewTextView()
	a.header.SetDynamicColors(true).
		SetTextColor(a.theme.Foreground).
		SetBackgroundColor(a.theme.HeaderBg)

	a.tabs = tview.NewTextView()
	a.tabs.SetDynamicColors(true).
		SetTextColor(a.theme.SecondaryText).
		SetBackgroundColor(a.theme.HeaderBg)

	a.banner = tview.NewTextView()
	a.banner.SetDynamicColors(true).
		SetTextColor(a.theme.Error)

	a.list = tview.NewTable()
	a.list.SetSelectable(true, false).
		SetSelectedStyle(tcell.StyleDefault.
			Background(a.theme.SelectionBg).
			Foreground(a.theme.SelectionText))
	a.list.SetBackgroundColor(a.theme.Background)
	a.list.SetBorder(true).
		SetBorderColor(a.theme.Border)

	a.statusBar = tview.NewTextView()
	a.statusBar.SetDynamicColors(true).
		SetTextColor(a.theme.SecondaryText)

	a.mainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.tabs, 1, 0, false).
		AddItem(a.banner, 0, 0, false).
		AddItem(a.list, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("main", a.mainLayout, true, true)
}

// bindGlobalKeys sets up global keyboard shortcuts.
func (a *App) bindGlobalKeys() {
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if a.settings != nil && a.settings.Visible() {
		return a.settings.HandleKey(event)
	}
	a.flashText = ""

	switch event.Key() {
	case tcell.KeyEnter:
		a.runCommand("open")
		return nil
	case tcell.KeyEscape:
		a.runCommand("back")
		return nil
	case tcell.KeyTab:
		a.cycleTab(1)
		return nil
	case tcell.KeyBacktab:
		a.cycleTab(-1)
		return nil
	case tcell.KeyRune:
		r := event.Rune()
		if r >= '1' && r <= '3' {
			a.selectTab(config.Tabs[r-'1'])
			return nil
		}
		if cmd := a.commandByRune(r); cmd != nil {
			logger.Debug("tui.app: command %s", cmd.ID)
			cmd.Run(a)
			return nil
		}
	}
	return event
}

func (a *App) runCommand(id string) {
	if cmd := a.commandByID(id); cmd != nil {
		cmd.Run(a)
	}
}

// ShowSettings asks the controller to show settings.
func (a *App) ShowSettings() {
	a.async(func() {
		a.controller.OpenSettings()
	})
}

// closeSettings hides settings when a key is stored.
func (a *App) closeSettings() {
	if !a.State().HasAPIKey {
		return
	}
	a.async(func() {
		a.controller.DismissSettings()
	})
}

// selectTab switches the visible tab and persists the choice.
func (a *App) selectTab(tab config.Tab) {
	if a.State().SelectedProject != nil || tab == a.prefs.SelectedTab {
		return
	}
	logger.Debug("tui.app: tab selected tab=%s", tab)
	a.prefs.SelectedTab = tab
	a.savePreferences()
	a.list.Select(0, 0)
	a.render()
}

// setAutoRefresh applies and persists the auto-refresh interval.
func (a *App) setAutoRefresh(d time.Duration) {
	if d == a.prefs.AutoRefreshInterval() {
		return
	}
	a.prefs.SetAutoRefreshInterval(d)
	a.savePreferences()
	if a.scheduler != nil {
		a.scheduler.SetInterval(d)
	}
}

func (a *App) savePreferences() {
	if a.prefsPath == "" {
		return
	}
	if err := config.SavePreferences(a.prefsPath, a.prefs); err != nil {
		logger.ErrorWithErr(err, "tui.app: failed to save preferences")
	}
}

// flash shows a transient message in the status bar until the next key.
func (a *App) flash(text string) {
	a.flashText = text
	a.updateStatusBar()
}

// selectedRow returns the row under the cursor.
func (a *App) selectedRow() (Row, bool) {
	idx, _ := a.list.GetSelection()
	if idx < 0 || idx >= len(a.rows) {
		return Row{}, false
	}
	return a.rows[idx], true
}

// sectionForSelection returns the section row under the cursor, or the
// section that contains the selected issue.
func (a *App) sectionForSelection() (Row, int, bool) {
	idx, _ := a.list.GetSelection()
	if idx < 0 || idx >= len(a.rows) {
		return Row{}, 0, false
	}
	for i := idx; i >= 0; i-- {
		switch a.rows[i].Kind {
		case RowSection:
			return a.rows[i], i, true
		case RowIssue:
			continue
		default:
			return Row{}, 0, false
		}
	}
	return Row{}, 0, false
}

// render redraws every component from the current state.
func (a *App) render() {
	s := a.State()

	hasKey := s.HasAPIKey
	if s.ShowSettings || !hasKey {
		if !a.settings.Visible() || a.settings.hasKey != hasKey {
			a.settings.Show(hasKey)
		}
	} else if a.settings.Visible() {
		a.settings.Hide()
	}

	a.updateHeader(s)
	a.updateTabs(s)
	a.updateBanner(s)
	a.updateList(s)
	a.updateStatusBar()
}

func (a *App) updateHeader(s inbox.State) {
	if s.SelectedProject != nil {
		status := ""
		if s.ProjectPhase == inbox.PhaseLoading {
			status = fmt.Sprintf("  %sLoading…[-]", a.themeTags.SecondaryText)
		}
		a.header.SetText(fmt.Sprintf(" %s‹[-] [::b]%s[::-]%s", a.themeTags.Accent,
			tview.Escape(s.SelectedProject.Name), status))
		return
	}

	status := fmt.Sprintf("%sUpdated %s[-]", a.themeTags.SecondaryText, inbox.RelativeTime(s.LastUpdated, a.now()))
	if s.Loading() {
		status = fmt.Sprintf("%sRefreshing…[-]", a.themeTags.SecondaryText)
	}
	a.header.SetText(fmt.Sprintf(" [::b]Linear Inbox[::-]  %s", status))
}

func (a *App) updateTabs(s inbox.State) {
	if s.SelectedProject != nil {
		a.tabs.SetText(fmt.Sprintf(" %sAll issues[-]", a.themeTags.SecondaryText))
		return
	}
	parts := make([]string, 0, len(config.Tabs))
	for i, tab := range config.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == a.prefs.SelectedTab {
			label = fmt.Sprintf("%s[::b]%s[::-][-]", a.themeTags.Accent, label)
		}
		parts = append(parts, label)
	}
	a.tabs.SetText(" " + strings.Join(parts, "   "))
}

func (a *App) updateBanner(s inbox.State) {
	err := s.Err
	if s.SelectedProject != nil {
		err = s.ProjectErr
	}
	if err == nil {
		a.banner.SetText("")
		a.mainLayout.ResizeItem(a.banner, 0, 0)
		return
	}
	a.banner.SetText(fmt.Sprintf(" ⚠ %s  %s(r: retry)[-]", tview.Escape(err.Error()), a.themeTags.SecondaryText))
	a.mainLayout.ResizeItem(a.banner, 1, 0)
}

func (a *App) updateList(s inbox.State) {
	selected, _ := a.list.GetSelection()
	a.rows = buildRows(s, a.prefs.SelectedTab, a.prefs)

	a.list.Clear()
	for i, row := range a.rows {
		a.list.SetCell(i, 0, tview.NewTableCell(a.rowText(row)).
			SetExpansion(1).
			SetSelectable(row.Kind != RowMessage))
	}
	if len(a.rows) == 0 {
		return
	}
	if selected >= len(a.rows) {
		selected = len(a.rows) - 1
	}
	if selected < 0 {
		selected = 0
	}
	a.list.Select(selected, 0)
}

func (a *App) rowText(row Row) string {
	switch row.Kind {
	case RowSection:
		arrow := "▾"
		if !row.Expanded {
			arrow = "▸"
		}
		return fmt.Sprintf("%s%s [::b]%s[::-][-] %s(%d)[-]", a.themeTags.Accent, arrow,
			tview.Escape(row.Title), a.themeTags.SecondaryText, row.Count)
	case RowIssue:
		issue := row.Issue
		return fmt.Sprintf("  %s%s[-] %s%s[-] %s", colorTag(priorityColor(issue.PriorityLevel())),
			priorityGlyph(issue), a.themeTags.SecondaryText, tview.Escape(issue.Identifier),
			tview.Escape(issue.Title))
	case RowProject:
		p := row.Project
		return fmt.Sprintf("%s%s[-] %s %s›[-]", colorTag(hexColor(p.Color, a.theme.Accent)), linearapi.FavoriteKindProject.Icon(),
			tview.Escape(p.Name), a.themeTags.SecondaryText)
	case RowFavorite:
		return a.favoriteText(row.Favorite)
	default:
		return fmt.Sprintf("  [::b]%s[::-]  %s%s[-]", tview.Escape(row.Title),
			a.themeTags.SecondaryText, tview.Escape(row.Detail))
	}
}

func (a *App) favoriteText(f linearapi.Favorite) string {
	icon := f.Kind.Icon()
	iconColor := hexColor(f.Color, a.theme.Accent)
	if !f.Navigable() {
		return fmt.Sprintf("%s%s %s[-]", a.themeTags.SecondaryText, icon, tview.Escape(f.Name))
	}
	return fmt.Sprintf("%s%s[-] %s %s↗[-]", colorTag(iconColor), icon, tview.Escape(f.Name), a.themeTags.SecondaryText)
}

// updateStatusBar shows counts, key help and any flash message.
func (a *App) updateStatusBar() {
	s := a.State()
	sep := fmt.Sprintf("%s | [-]", a.themeTags.Border)

	parts := []string{fmt.Sprintf("%s%s[-]", a.themeTags.Accent, footerCount(s, a.prefs.SelectedTab))}
	if a.flashText != "" {
		parts = append(parts, a.flashText)
	}
	parts = append(parts, fmt.Sprintf("%s%s[-]", a.themeTags.SecondaryText, a.helpText()))
	a.statusBar.SetText(" " + strings.Join(parts, sep))
}
