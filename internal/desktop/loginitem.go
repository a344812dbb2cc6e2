package desktop

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/roeyazroel/linear-inbox/internal/logger"
)

const (
	// LoginItemLabel identifies the launch agent on macOS.
	LoginItemLabel = "com.linearinbox.app"
	desktopEntry   = "linear-inbox.desktop"
)

// ErrLoginItemUnsupported is returned on systems without a supported
// autostart mechanism.
var ErrLoginItemUnsupported = errors.New("launch at login is not supported on this system")

// LoginItem registers the program to start when the user logs in: a
// LaunchAgent on macOS, an XDG autostart entry elsewhere.
type LoginItem struct {
	// GOOS selects the mechanism; defaults to runtime.GOOS.
	GOOS string
	// Home is the user's home directory; defaults to os.UserHomeDir.
	Home string
	// Executable is the program to launch; defaults to os.Executable.
	Executable string
}

func (l LoginItem) resolve() (LoginItem, error) {
	if l.GOOS == "" {
		l.GOOS = runtime.GOOS
	}
	if l.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return l, fmt.Errorf("resolve home directory: %w", err)
		}
		l.Home = home
	}
	if l.Executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return l, fmt.Errorf("resolve executable: %w", err)
		}
		l.Executable = exe
	}
	return l, nil
}

// Path returns the file whose presence marks the login item as enabled.
func (l LoginItem) Path() (string, error) {
	l, err := l.resolve()
	if err != nil {
		return "", err
	}
	switch l.GOOS {
	case "darwin":
		return filepath.Join(l.Home, "Library", "LaunchAgents", LoginItemLabel+".plist"), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "autostart", desktopEntry), nil
		}
		return filepath.Join(l.Home, ".config", "autostart", desktopEntry), nil
	default:
		return "", ErrLoginItemUnsupported
	}
}

// Enabled reports whether the login item is registered.
func (l LoginItem) Enabled() bool {
	path, err := l.Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// SetEnabled registers or unregisters the login item.
func (l LoginItem) SetEnabled(enabled bool) error {
	l, err := l.resolve()
	if err != nil {
		return err
	}
	path, err := l.Path()
	if err != nil {
		return err
	}

	if !enabled {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove login item: %w", err)
		}
		logger.Info("desktop: login item disabled path=%s", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create login item directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(l.contents()), 0o644); err != nil {
		return fmt.Errorf("write login item: %w", err)
	}
	logger.Info("desktop: login item enabled path=%s", path)
	return nil
}

func (l LoginItem) contents() string {
	if l.GOOS == "darwin" {
		return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, LoginItemLabel, xmlEscape(l.Executable))
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=Linear Inbox
Exec=%s
Terminal=true
X-GNOME-Autostart-enabled=true
`, desktopExec(l.Executable))
}

func xmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// desktopExec quotes an Exec path for a freedesktop Desktop Entry.
func desktopExec(s string) string {
	if !strings.ContainsAny(s, " \t\"'\\$`") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", "$", `\$`).Replace(s) + `"`
}
