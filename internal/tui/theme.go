package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
)

// Theme holds the colors used across the UI.
type Theme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	SecondaryText tcell.Color
	Accent        tcell.Color
	Border        tcell.Color
	Warning       tcell.Color
	Error         tcell.Color
	Success       tcell.Color
	SelectionBg   tcell.Color
	SelectionText tcell.Color
	HeaderBg      tcell.Color
}

// ThemeTags are tview color tags derived from a Theme.
type ThemeTags struct {
	SecondaryText string
	Accent        string
	Border        string
	Warning       string
	Error         string
	Success       string
}

// DefaultTheme is the only theme; it follows Linear's dark palette.
var DefaultTheme = Theme{
	Background:    tcell.ColorDefault,
	Foreground:    tcell.NewHexColor(0xe6e6e6),
	SecondaryText: tcell.NewHexColor(0x8a8f98),
	Accent:        tcell.NewHexColor(0x5e6ad2),
	Border:        tcell.NewHexColor(0x3c3f4a),
	Warning:       tcell.NewHexColor(0xf2994a),
	Error:         tcell.NewHexColor(0xeb5757),
	Success:       tcell.NewHexColor(0x4cb782),
	SelectionBg:   tcell.NewHexColor(0x2c2f3a),
	SelectionText: tcell.NewHexColor(0xffffff),
	HeaderBg:      tcell.NewHexColor(0x1f2128),
}

// NewThemeTags builds the color tags for t.
func NewThemeTags(t Theme) ThemeTags {
	return ThemeTags{
		SecondaryText: colorTag(t.SecondaryText),
		Accent:        colorTag(t.Accent),
		Border:        colorTag(t.Border),
		Warning:       colorTag(t.Warning),
		Error:         colorTag(t.Error),
		Success:       colorTag(t.Success),
	}
}

func colorTag(c tcell.Color) string {
	return "[" + c.CSS() + "]"
}

// priorityColor maps Issue.PriorityLevel names to colors.
func priorityColor(level string) tcell.Color {
	switch level {
	case "urgent":
		return tcell.NewHexColor(0xeb5757)
	case "high":
		return tcell.NewHexColor(0xf2994a)
	case "medium":
		return tcell.NewHexColor(0xf2c94c)
	case "low":
		return tcell.NewHexColor(0x5e9ce6)
	default:
		return tcell.NewHexColor(0x8a8f98)
	}
}

// priorityGlyph is the marker shown before an issue.
func priorityGlyph(issue linearapi.Issue) string {
	switch issue.PriorityLevel() {
	case "urgent":
		return "!"
	case "high":
		return "▲"
	case "medium":
		return "■"
	case "low":
		return "▼"
	default:
		return "·"
	}
}

// hexColor parses a Linear color like "#5e6ad2", falling back to def.
func hexColor(s string, def tcell.Color) tcell.Color {
	if s == "" {
		return def
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return def
	}
	return c
}
