package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/logger"
)

// FormatShortcut returns a human-readable string for a shortcut.
func FormatShortcut(r rune) string {
	if r == 0 {
		return ""
	}
	return strings.ToLower(string(r))
}

// Command is an action bound to a key.
type Command struct {
	ID              string
	Title           string
	ShortcutRune    rune   // The rune for the keyboard shortcut (e.g., 'r' for refresh)
	ShortcutDisplay string // Custom display text for shortcut (e.g., "Esc"), overrides ShortcutRune display
	// Help marks commands listed in the footer.
	Help bool
	Run  func(a *App)
}

// Shortcut returns the display text of the command's key.
func (c Command) Shortcut() string {
	if c.ShortcutDisplay != "" {
		return c.ShortcutDisplay
	}
	return FormatShortcut(c.ShortcutRune)
}

// DefaultCommands returns the commands bound in the main view.
func DefaultCommands() []Command {
	return []Command{
		{
			ID:           "refresh",
			Title:        "Refresh",
			ShortcutRune: 'r',
			Help:         true,
			Run:          handleRefresh,
		},
		{
			ID:              "open",
			Title:           "Open",
			ShortcutRune:    'o',
			ShortcutDisplay: "Enter/o",
			Help:            true,
			Run:             func(a *App) { handleOpen(a, false) },
		},
		{
			ID:           "open_web",
			Title:        "Open in browser",
			ShortcutRune: 'w',
			Run:          func(a *App) { handleOpen(a, true) },
		},
		{
			ID:           "copy_url",
			Title:        "Copy URL",
			ShortcutRune: 'y',
			Help:         true,
			Run:          handleCopyURL,
		},
		{
			ID:           "toggle_section",
			Title:        "Toggle section",
			ShortcutRune: ' ',
			Run:          handleToggleSection,
		},
		{
			ID:              "back",
			Title:           "Back",
			ShortcutDisplay: "Esc",
			Run:             handleBack,
		},
		{
			ID:              "next_tab",
			Title:           "Switch tab",
			ShortcutDisplay: "Tab/1-3",
			Help:            true,
			Run:             func(a *App) { a.cycleTab(1) },
		},
		{
			ID:           "settings",
			Title:        "Settings",
			ShortcutRune: 's',
			Help:         true,
			Run:          func(a *App) { a.ShowSettings() },
		},
		{
			ID:           "quit",
			Title:        "Quit",
			ShortcutRune: 'q',
			Help:         true,
			Run:          func(a *App) { a.Stop() },
		},
	}
}

// commandByRune finds the command bound to r.
func (a *App) commandByRune(r rune) *Command {
	for i := range a.commands {
		if a.commands[i].ShortcutRune == r {
			return &a.commands[i]
		}
	}
	return nil
}

// commandByID finds the command with id.
func (a *App) commandByID(id string) *Command {
	for i := range a.commands {
		if a.commands[i].ID == id {
			return &a.commands[i]
		}
	}
	return nil
}

// helpText lists the footer commands.
func (a *App) helpText() string {
	parts := make([]string, 0, len(a.commands))
	for _, cmd := range a.commands {
		if !cmd.Help {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", cmd.Shortcut(), strings.ToLower(cmd.Title)))
	}
	if a.State().SelectedProject != nil {
		parts = append([]string{"Esc: back"}, parts...)
	}
	return strings.Join(parts, " | ")
}

// handleRefresh refreshes the visible data.
func handleRefresh(a *App) {
	if a.State().SelectedProject != nil {
		a.async(func() {
			_ = a.controller.RefreshProject(context.Background())
		})
		return
	}
	a.async(func() {
		_ = a.controller.Refresh(context.Background())
	})
}

// handleOpen opens the selected row's URL, or drills into a project.
func handleOpen(a *App, web bool) {
	row, ok := a.selectedRow()
	if !ok {
		return
	}

	switch row.Kind {
	case RowSection:
		if !web {
			handleToggleSection(a)
		}
		return
	case RowProject:
		project := row.Project
		logger.Debug("tui.commands: project selected project=%s", project.ID)
		a.async(func() {
			_ = a.controller.SelectProject(context.Background(), project)
		})
		return
	}

	url := row.URL()
	if url == "" {
		return
	}
	opened, err := a.opener.OpenIssue(url, web)
	if err != nil {
		a.flash(fmt.Sprintf("%sFailed to open link[-]", a.themeTags.Error))
		return
	}
	if !opened {
		a.flash(fmt.Sprintf("%sNot a Linear link[-]", a.themeTags.Warning))
	}
}

// handleCopyURL copies the selected row's URL.
func handleCopyURL(a *App) {
	row, ok := a.selectedRow()
	if !ok || row.URL() == "" {
		return
	}
	if err := a.copyText(row.URL()); err != nil {
		a.flash(fmt.Sprintf("%sFailed to copy URL[-]", a.themeTags.Error))
		return
	}
	a.flash(fmt.Sprintf("%sCopied %s[-]", a.themeTags.Success, row.URL()))
}

// handleToggleSection expands or collapses the section under the cursor,
// or the section the selected issue belongs to.
func handleToggleSection(a *App) {
	row, idx, ok := a.sectionForSelection()
	if !ok {
		return
	}
	a.prefs.SetSectionExpanded(row.SectionKey, !row.Expanded)
	a.savePreferences()
	a.render()
	a.list.Select(idx, 0)
}

// handleBack leaves the project issue view.
func handleBack(a *App) {
	if a.State().SelectedProject == nil {
		return
	}
	a.async(func() {
		a.controller.ClearProject()
	})
}

// cycleTab moves the tab selection by delta, wrapping around.
func (a *App) cycleTab(delta int) {
	idx := 0
	for i, t := range config.Tabs {
		if t == a.prefs.SelectedTab {
			idx = i
		}
	}
	n := len(config.Tabs)
	a.selectTab(config.Tabs[((idx+delta)%n+n)%n])
}
