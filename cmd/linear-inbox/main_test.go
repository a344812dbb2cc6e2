package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/credential"
	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/roeyazroel/linear-inbox/internal/logger"
	"github.com/roeyazroel/linear-inbox/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeAPI struct {
	issues        []linearapi.Issue
	err           error
	projects      []linearapi.Project
	favorites     []linearapi.Favorite
	lastProjectID string
	issueCalls    int32
}

func (f *fakeAPI) FetchAssignedIssues(ctx context.Context) ([]linearapi.Issue, error) {
	atomic.AddInt32(&f.issueCalls, 1)
	return f.issues, f.err
}

func (f *fakeAPI) FetchFavorites(ctx context.Context) ([]linearapi.Favorite, error) {
	return f.favorites, f.err
}

func (f *fakeAPI) FetchProjects(ctx context.Context) ([]linearapi.Project, error) {
	return f.projects, f.err
}

func (f *fakeAPI) FetchProjectIssues(ctx context.Context, projectID string) ([]linearapi.Issue, error) {
	f.lastProjectID = projectID
	return f.issues, f.err
}

type fakeOpener struct {
	accept bool
	urls   []string
	web    bool
}

func (o *fakeOpener) OpenIssue(rawURL string, web bool) (bool, error) {
	o.urls = append(o.urls, rawURL)
	o.web = web
	return o.accept, nil
}

type fakeLogin struct {
	enabled bool
	err     error
}

func (f *fakeLogin) Enabled() bool { return f.enabled }

func (f *fakeLogin) SetEnabled(enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.enabled = enabled
	return nil
}

func (f *fakeLogin) Path() (string, error) {
	return "/tmp/autostart/linear-inbox.desktop", nil
}

// testEnv installs isolated output, config and credential store.
func testEnv(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	origUI, origCfg, origStore := ui, cfg, store
	origOpener, origLogin, origAPI := opener, loginItem, newAPI
	t.Cleanup(func() {
		ui, cfg, store = origUI, origCfg, origStore
		opener, loginItem, newAPI = origOpener, origLogin, origAPI
	})

	ui = &output.UI{Out: out, ErrOut: errOut}
	store = credential.NewMemoryStore()
	cfg = config.Config{
		APIEndpoint:       config.DefaultAPIEndpoint,
		Timeout:           config.DefaultTimeout,
		LogFile:           filepath.Join(dir, "linear-inbox.log"),
		LogLevel:          config.DefaultLogLevel,
		CredentialBackend: config.BackendMemory,
		PreferencesFile:   filepath.Join(dir, "preferences.yaml"),
	}
	return out, errOut
}

func sampleIssues() []linearapi.Issue {
	return []linearapi.Issue{
		{ID: "1", Identifier: "ENG-1", Title: "Polish settings", Priority: 3, PriorityLabel: "Medium",
			URL: "https://linear.app/acme/issue/ENG-1", State: linearapi.WorkflowState{Name: "In Progress", Type: "started"}},
		{ID: "2", Identifier: "ENG-2", Title: "Ship release", Priority: 1, PriorityLabel: "Urgent",
			URL: "https://linear.app/acme/issue/ENG-2", State: linearapi.WorkflowState{Name: "Ready to Merge", Type: "started"}},
		{ID: "3", Identifier: "ENG-3", Title: "Done already",
			URL: "https://linear.app/acme/issue/ENG-3", State: linearapi.WorkflowState{Name: "Done", Type: "completed"}},
	}
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), "linear-inbox dev")
}

func TestIssuesRun_Table(t *testing.T) {
	out, _ := testEnv(t)

	require.NoError(t, issuesRun(context.Background(), &fakeAPI{issues: sampleIssues()}, issuesOptions{}))

	result := out.String()
	assert.Contains(t, result, "Ready to Merge")
	assert.Contains(t, result, "ENG-2")
	assert.Contains(t, result, "In Progress")
	assert.NotContains(t, result, "ENG-3")
}

func TestIssuesRun_JSON(t *testing.T) {
	out, _ := testEnv(t)

	require.NoError(t, issuesRun(context.Background(), &fakeAPI{issues: sampleIssues()}, issuesOptions{json: true}))

	var b inbox.Buckets
	require.NoError(t, json.Unmarshal(out.Bytes(), &b))
	require.Len(t, b.ReadyToMerge, 1)
	assert.Equal(t, "ENG-2", b.ReadyToMerge[0].Identifier)
	assert.Len(t, b.InProgress, 1)
	assert.Equal(t, 2, b.Total())
}

func TestIssuesRun_Project(t *testing.T) {
	testEnv(t)
	api := &fakeAPI{issues: sampleIssues()}

	require.NoError(t, issuesRun(context.Background(), api, issuesOptions{projectID: "p1"}))
	assert.Equal(t, "p1", api.lastProjectID)
	assert.Zero(t, atomic.LoadInt32(&api.issueCalls))
}

func TestIssuesRun_Render(t *testing.T) {
	out, _ := testEnv(t)

	require.NoError(t, issuesRun(context.Background(), &fakeAPI{issues: sampleIssues()},
		issuesOptions{render: true, style: "notty", width: 80}))

	result := out.String()
	assert.Contains(t, result, "My Issues")
	assert.Contains(t, result, "ENG-2")
	assert.Contains(t, result, "Ship release")
}

func TestIssuesRun_Error(t *testing.T) {
	testEnv(t)
	apiErr := &linearapi.Error{Kind: linearapi.KindGraphQL, Message: "Invalid API key"}

	err := issuesRun(context.Background(), &fakeAPI{err: apiErr}, issuesOptions{})
	require.Error(t, err)
	assert.Equal(t, "API error: Invalid API key", err.Error())
}

func TestProjectsAndFavorites(t *testing.T) {
	out, _ := testEnv(t)
	api := &fakeAPI{
		projects:  []linearapi.Project{{ID: "p1", Name: "Alpha", Color: "#5e6ad2"}},
		favorites: []linearapi.Favorite{{ID: "f1", Name: "Sprint 4", Kind: linearapi.FavoriteKindCycle}},
	}

	require.NoError(t, projectsRun(context.Background(), api, false))
	require.NoError(t, favoritesRun(context.Background(), api, false))

	assert.Contains(t, out.String(), "Alpha")
	assert.Contains(t, out.String(), "Sprint 4")
}

func TestProjectsRun_JSON(t *testing.T) {
	out, _ := testEnv(t)
	api := &fakeAPI{projects: []linearapi.Project{{ID: "p1", Name: "Alpha"}}}

	require.NoError(t, projectsRun(context.Background(), api, true))

	var projects []linearapi.Project
	require.NoError(t, json.Unmarshal(out.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "Alpha", projects[0].Name)
}

func TestOpenRun(t *testing.T) {
	testEnv(t)
	o := &fakeOpener{accept: true}
	opener = o

	require.NoError(t, openRun("https://linear.app/acme/issue/ENG-1", true))
	assert.Equal(t, []string{"https://linear.app/acme/issue/ENG-1"}, o.urls)
	assert.True(t, o.web)

	o.accept = false
	err := openRun("https://evil.com/phish", false)
	assert.ErrorIs(t, err, ErrNotLinearURL)
}

func TestKeySet(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		stdin string
		want  string
	}{
		{"argument", "lin_api_arg", "", "lin_api_arg"},
		{"stdin", "", "lin_api_stdin\nignored\n", "lin_api_stdin"},
		{"dash reads stdin", "-", "  lin_api_dash  ", "lin_api_dash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := testEnv(t)

			require.NoError(t, keySetRun(tt.arg, strings.NewReader(tt.stdin)))

			got, err := store.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "API key saved")
		})
	}
}

func TestKeySet_Empty(t *testing.T) {
	testEnv(t)

	err := keySetRun("", strings.NewReader("   \n"))
	require.Error(t, err)
	assert.False(t, store.Exists())
}

func TestKeySet_StoreFailure(t *testing.T) {
	testEnv(t)
	mem := credential.NewMemoryStore()
	mem.Fail = errors.New("keychain locked")
	store = mem

	err := keySetRun("lin_api_x", strings.NewReader(""))
	require.Error(t, err)
	var statusErr *credential.UnexpectedStatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestKeyClearAndStatus(t *testing.T) {
	out, errOut := testEnv(t)
	require.NoError(t, store.Save("lin_api_x"))

	require.NoError(t, keyStatusRun())
	assert.Contains(t, out.String(), "API key stored (memory backend)")

	require.NoError(t, keyClearRun())
	assert.False(t, store.Exists())

	require.NoError(t, keyStatusRun())
	assert.Contains(t, errOut.String(), "No API key stored")
}

func TestKeyStatus_EnvHint(t *testing.T) {
	out, _ := testEnv(t)
	t.Setenv(config.LinearAPIKeyEnv, "lin_api_env")

	require.NoError(t, keyStatusRun())
	assert.Contains(t, out.String(), "key import-env")
}

func TestKeyImportEnv(t *testing.T) {
	out, errOut := testEnv(t)

	t.Setenv(config.LinearAPIKeyEnv, "")
	assert.Error(t, keyImportEnvRun(false))

	t.Setenv(config.LinearAPIKeyEnv, " lin_api_env ")
	require.NoError(t, keyImportEnvRun(false))
	got, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "lin_api_env", got)
	assert.Contains(t, out.String(), "API key imported")

	t.Setenv(config.LinearAPIKeyEnv, "lin_api_other")
	require.NoError(t, keyImportEnvRun(false))
	got, _ = store.Get()
	assert.Equal(t, "lin_api_env", got, "existing key kept without --force")
	assert.Contains(t, errOut.String(), "already stored")

	require.NoError(t, keyImportEnvRun(true))
	got, _ = store.Get()
	assert.Equal(t, "lin_api_other", got)
}

func TestConfigShow(t *testing.T) {
	out, _ := testEnv(t)

	require.NoError(t, configShowRun(false))

	result := out.String()
	assert.Contains(t, result, "api_endpoint")
	assert.Contains(t, result, config.DefaultAPIEndpoint)
	assert.Contains(t, result, "5m0s")
	assert.NotContains(t, result, "credential.file")
}

func TestConfigShow_YAML(t *testing.T) {
	out, _ := testEnv(t)
	require.NoError(t, store.Save("lin_api_secret"))

	require.NoError(t, configShowRun(true))

	assert.NotContains(t, out.String(), "lin_api_secret")
	var ec effectiveConfig
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &ec))
	assert.Equal(t, config.BackendMemory, ec.CredentialBackend)
	assert.Equal(t, "My Issues", ec.SelectedTab)
	assert.Equal(t, "(none)", ec.ConfigFile)
}

type manualTicker struct {
	c chan time.Time
}

func (m manualTicker) C() <-chan time.Time { return m.c }
func (m manualTicker) Stop()               {}

func TestWatchRun(t *testing.T) {
	out, _ := testEnv(t)
	require.NoError(t, store.Save("lin_api_x"))
	api := &fakeAPI{issues: sampleIssues()}
	controller := inbox.NewController(api, store)
	ticker := manualTicker{c: make(chan time.Time)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchRun(ctx, controller, time.Minute,
			inbox.WithTicker(func(time.Duration) inbox.Ticker { return ticker }))
	}()

	// The second send only completes once the first tick has been handled.
	ticker.c <- time.Now()
	ticker.c <- time.Now()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&api.issueCalls), int32(2))
	assert.Contains(t, out.String(), "2 issues")
	assert.Contains(t, out.String(), "Ready to Merge")
}

func TestWatchRun_Disabled(t *testing.T) {
	testEnv(t)
	controller := inbox.NewController(&fakeAPI{}, store)

	err := watchRun(context.Background(), controller, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto-refresh is off")
}

func TestLoginItemCommands(t *testing.T) {
	out, _ := testEnv(t)
	item := &fakeLogin{}
	loginItem = item

	require.NoError(t, loginItemSetRun(true))
	assert.True(t, item.enabled)
	require.NoError(t, loginItemStatusRun())
	assert.Contains(t, out.String(), "linear-inbox.desktop")

	require.NoError(t, loginItemSetRun(false))
	assert.False(t, item.enabled)

	item.err = errors.New("read-only home")
	assert.Error(t, loginItemSetRun(true))
}

func TestInitDeps(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	origDir := config.DirFunc
	config.DirFunc = func() (string, error) { return dir, nil }
	origBackend, origFile := credentialBackend, cfgFile
	t.Cleanup(func() {
		config.DirFunc = origDir
		credentialBackend, cfgFile = origBackend, origFile
		logger.Close()
	})

	credentialBackend = "memory"
	cfgFile = ""
	require.NoError(t, initDeps(rootCmd))

	assert.Equal(t, config.DefaultAPIEndpoint, cfg.APIEndpoint)
	assert.Equal(t, filepath.Join(dir, "preferences.yaml"), cfg.PreferencesFile)
	_, isMemory := store.(*credential.MemoryStore)
	assert.True(t, isMemory)

	credentialBackend = "vault"
	assert.Error(t, initDeps(rootCmd))
}
