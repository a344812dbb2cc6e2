package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPreferences_MissingFileReturnsDefaults(t *testing.T) {
	prefs, err := LoadPreferences(filepath.Join(t.TempDir(), "prefs.yaml"))
	require.NoError(t, err)

	assert.Equal(t, TabMyIssues, prefs.SelectedTab)
	assert.Equal(t, 5*time.Minute, prefs.AutoRefreshInterval())
	assert.True(t, prefs.SectionExpanded("in_review"))
	assert.False(t, prefs.SectionExpanded("backlog"))
	assert.False(t, prefs.SectionExpanded("project.backlog"))
}

func TestSavePreferences_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prefs.yaml")

	prefs := DefaultPreferences()
	prefs.SelectedTab = TabFavorites
	prefs.SetAutoRefreshInterval(15 * time.Minute)
	prefs.SetSectionExpanded("backlog", true)
	prefs.SetSectionExpanded("todo", false)
	require.NoError(t, SavePreferences(path, prefs))

	loaded, err := LoadPreferences(path)
	require.NoError(t, err)
	assert.Equal(t, TabFavorites, loaded.SelectedTab)
	assert.Equal(t, 15*time.Minute, loaded.AutoRefreshInterval())
	assert.True(t, loaded.SectionExpanded("backlog"))
	assert.False(t, loaded.SectionExpanded("todo"))
}

func TestLoadPreferences_SanitizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	content := "selected_tab: Inbox\nauto_refresh_seconds: -10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	prefs, err := LoadPreferences(path)
	require.NoError(t, err)
	assert.Equal(t, TabMyIssues, prefs.SelectedTab)
	assert.Equal(t, time.Duration(0), prefs.AutoRefreshInterval())
	assert.NotNil(t, prefs.Sections)
}

func TestLoadPreferences_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_tab: [unterminated"), 0o600))

	prefs, err := LoadPreferences(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func TestSetAutoRefreshInterval_Off(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.SetAutoRefreshInterval(-time.Second)
	assert.Equal(t, 0, prefs.AutoRefreshSeconds)
	assert.Equal(t, time.Duration(0), prefs.AutoRefreshInterval())
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabProjects, ParseTab("Projects"))
	assert.Equal(t, TabMyIssues, ParseTab("projects"))
}
