package desktop

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	args []string
	err  error
	n    int
}

func (r *recorder) start(name string, args ...string) error {
	r.n++
	r.name = name
	r.args = args
	return r.err
}

func newTestOpener(goos string) (*Opener, *recorder) {
	r := &recorder{}
	return &Opener{goos: goos, start: r.start}, r
}

func TestOpenURL_Commands(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{"https://x"}},
		{"linux", "xdg-open", []string{"https://x"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			o, r := newTestOpener(tt.goos)
			require.NoError(t, o.OpenURL("https://x"))
			assert.Equal(t, tt.name, r.name)
			assert.Equal(t, tt.args, r.args)
		})
	}
}

func TestOpenURL_UnsupportedOS(t *testing.T) {
	o, r := newTestOpener("plan9")

	assert.NoError(t, o.OpenURL("https://x"))
	assert.Equal(t, 0, r.n)
}

func TestOpenURL_StartError(t *testing.T) {
	o, r := newTestOpener("linux")
	r.err = errors.New("not found")

	assert.Error(t, o.OpenURL("https://x"))
}

func TestOpenIssue_DesktopScheme(t *testing.T) {
	o, r := newTestOpener("darwin")

	opened, err := o.OpenIssue("https://linear.app/team/issue/ENG-123", false)

	require.NoError(t, err)
	assert.True(t, opened)
	assert.Equal(t, []string{"linear://team/issue/ENG-123"}, r.args)
}

func TestOpenIssue_Web(t *testing.T) {
	o, r := newTestOpener("darwin")

	opened, err := o.OpenIssue("https://linear.app/team/issue/ENG-123", true)

	require.NoError(t, err)
	assert.True(t, opened)
	assert.Equal(t, []string{"https://linear.app/team/issue/ENG-123"}, r.args)
}

func TestOpenIssue_ForeignHostIsNoop(t *testing.T) {
	o, r := newTestOpener("darwin")

	for _, web := range []bool{false, true} {
		opened, err := o.OpenIssue("https://evil.com/linear.app/x", web)
		require.NoError(t, err)
		assert.False(t, opened)
	}
	assert.Equal(t, 0, r.n)
}

func TestCopyToClipboard(t *testing.T) {
	var got string
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	writeClipboard = func(s string) error { got = s; return nil }
	require.NoError(t, CopyToClipboard("https://linear.app/x"))
	assert.Equal(t, "https://linear.app/x", got)

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	assert.Error(t, CopyToClipboard("x"))
}

func TestLoginItem_Darwin(t *testing.T) {
	home := t.TempDir()
	item := LoginItem{GOOS: "darwin", Home: home, Executable: "/Applications/Linear Inbox/bin/linear-inbox"}

	path, err := item.Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Library", "LaunchAgents", "com.linearinbox.app.plist"), path)
	assert.False(t, item.Enabled())

	require.NoError(t, item.SetEnabled(true))
	assert.True(t, item.Enabled())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<string>com.linearinbox.app</string>")
	assert.Contains(t, string(data), "<string>/Applications/Linear Inbox/bin/linear-inbox</string>")
	assert.Contains(t, string(data), "<key>RunAtLoad</key>")

	require.NoError(t, item.SetEnabled(false))
	assert.False(t, item.Enabled())
	require.NoError(t, item.SetEnabled(false), "disabling twice is fine")
}

func TestLoginItem_Linux(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	item := LoginItem{GOOS: "linux", Home: home, Executable: "/opt/my apps/linear-inbox"}

	require.NoError(t, item.SetEnabled(true))

	path := filepath.Join(home, ".config", "autostart", "linear-inbox.desktop")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Desktop Entry]")
	assert.Contains(t, string(data), `Exec="/opt/my apps/linear-inbox"`)
	assert.True(t, item.Enabled())
}

func TestLoginItem_LinuxXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	item := LoginItem{GOOS: "linux", Home: t.TempDir(), Executable: "/usr/bin/linear-inbox"}

	path, err := item.Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "autostart", "linear-inbox.desktop"), path)
}

func TestLoginItem_Unsupported(t *testing.T) {
	item := LoginItem{GOOS: "plan9", Home: t.TempDir(), Executable: "/bin/x"}

	assert.ErrorIs(t, item.SetEnabled(true), ErrLoginItemUnsupported)
	assert.False(t, item.Enabled())
}
