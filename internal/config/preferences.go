package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tab identifies one of the top-level views.
type Tab string

const (
	TabMyIssues  Tab = "My Issues"
	TabProjects  Tab = "Projects"
	TabFavorites Tab = "Favorites"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabMyIssues, TabProjects, TabFavorites}

// ParseTab returns the tab named s, or TabMyIssues when s is unknown.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabMyIssues
}

// DefaultAutoRefreshSeconds is the default auto-refresh interval (5 minutes).
const DefaultAutoRefreshSeconds = 300

// RefreshOption is one entry of the auto-refresh picker.
type RefreshOption struct {
	Label    string
	Interval time.Duration
}

// AutoRefreshOptions are the intervals offered in settings.
var AutoRefreshOptions = []RefreshOption{
	{Label: "Off", Interval: 0},
	{Label: "1 minute", Interval: time.Minute},
	{Label: "5 minutes", Interval: 5 * time.Minute},
	{Label: "15 minutes", Interval: 15 * time.Minute},
	{Label: "30 minutes", Interval: 30 * time.Minute},
}

// Preferences are simple persisted UI settings.
type Preferences struct {
	SelectedTab        Tab             `yaml:"selected_tab"`
	AutoRefreshSeconds int             `yaml:"auto_refresh_seconds"`
	Sections           map[string]bool `yaml:"sections,omitempty"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() Preferences {
	return Preferences{
		SelectedTab:        TabMyIssues,
		AutoRefreshSeconds: DefaultAutoRefreshSeconds,
		Sections:           map[string]bool{},
	}
}

// AutoRefreshInterval returns the interval as a duration. Zero means off.
func (p Preferences) AutoRefreshInterval() time.Duration {
	if p.AutoRefreshSeconds <= 0 {
		return 0
	}
	return time.Duration(p.AutoRefreshSeconds) * time.Second
}

// SetAutoRefreshInterval stores d rounded down to whole seconds.
func (p *Preferences) SetAutoRefreshInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	p.AutoRefreshSeconds = int(d / time.Second)
}

// SectionExpanded reports whether the section with key is expanded.
// Backlog sections start collapsed; everything else starts expanded.
func (p Preferences) SectionExpanded(key string) bool {
	if v, ok := p.Sections[key]; ok {
		return v
	}
	return !strings.HasSuffix(key, "backlog")
}

// SetSectionExpanded records the expansion flag for key.
func (p *Preferences) SetSectionExpanded(key string, expanded bool) {
	if p.Sections == nil {
		p.Sections = map[string]bool{}
	}
	p.Sections[key] = expanded
}

// LoadPreferences reads preferences from path. A missing file yields defaults.
func LoadPreferences(path string) (Preferences, error) {
	prefs := DefaultPreferences()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return DefaultPreferences(), fmt.Errorf("parse preferences %s: %w", path, err)
	}
	prefs.SelectedTab = ParseTab(string(prefs.SelectedTab))
	if prefs.AutoRefreshSeconds < 0 {
		prefs.AutoRefreshSeconds = 0
	}
	if prefs.Sections == nil {
		prefs.Sections = map[string]bool{}
	}
	return prefs, nil
}

// SavePreferences writes prefs to path, replacing the file atomically.
func SavePreferences(path string, prefs Preferences) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp preferences: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
