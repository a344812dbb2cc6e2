package linearapi

import (
	"net/url"
	"strings"
)

const (
	webBaseURL     = "https://linear.app/"
	desktopBaseURL = "linear://"
	linearHost     = "linear.app"
)

// ProjectURL returns the web URL of a project.
func ProjectURL(projectID string) string {
	return webBaseURL + "project/" + projectID
}

// ViewURL returns the web URL of a custom view.
func ViewURL(viewID string) string {
	return webBaseURL + "view/" + viewID
}

// IsLinearURL reports whether raw is an https URL on linear.app or one of
// its subdomains.
func IsLinearURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == linearHost || strings.HasSuffix(host, "."+linearHost)
}

// DesktopURL rewrites a Linear web URL into the desktop app's scheme:
// https://linear.app/team/issue/ENG-123 becomes linear://team/issue/ENG-123.
// Subdomain URLs pass validation but are returned unchanged. The second
// result is false when raw is not a Linear URL; callers should do nothing.
func DesktopURL(raw string) (string, bool) {
	if !IsLinearURL(raw) {
		return "", false
	}
	if strings.HasPrefix(raw, webBaseURL) {
		return desktopBaseURL + strings.TrimPrefix(raw, webBaseURL), true
	}
	return raw, true
}
