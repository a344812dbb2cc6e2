// Package desktop integrates with the host desktop: opening Linear links,
// copying to the clipboard and launching at login.
package desktop

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/roeyazroel/linear-inbox/internal/logger"
)

// Opener hands URLs to the operating system.
type Opener struct {
	goos  string
	start func(name string, args ...string) error
}

// NewOpener returns an Opener for the running OS.
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// command returns the launcher for url on goos, or "" when unsupported.
func command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "", nil
	}
}

// OpenURL opens url with the system handler.
func (o *Opener) OpenURL(url string) error {
	name, args := command(o.goos, url)
	if name == "" {
		logger.Warning("desktop: unsupported OS for opening URLs os=%s", o.goos)
		return nil
	}

	if err := o.start(name, args...); err != nil {
		logger.ErrorWithErr(err, "desktop: failed to open URL url=%s", url)
		return fmt.Errorf("open %s: %w", url, err)
	}

	logger.Debug("desktop: opened URL url=%s", url)
	return nil
}

// OpenIssue opens a Linear URL in the desktop app, or in the browser when
// web is set. URLs that are not on linear.app are ignored; the first result
// reports whether anything was opened.
func (o *Opener) OpenIssue(rawURL string, web bool) (bool, error) {
	target, ok := linearapi.DesktopURL(rawURL)
	if !ok {
		logger.Warning("desktop: refusing to open non-Linear URL url=%s", rawURL)
		return false, nil
	}
	if web {
		target = rawURL
	}
	if err := o.OpenURL(target); err != nil {
		return false, err
	}
	return true, nil
}

var writeClipboard = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error {
	if err := writeClipboard(text); err != nil {
		logger.ErrorWithErr(err, "desktop: failed to copy to clipboard")
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	logger.Debug("desktop: copied to clipboard length=%d", len(text))
	return nil
}
