// Package output renders command-line results with colors and tables.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
)

// UI provides colored output for CLI commands.
type UI struct {
	Verbose bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New creates a UI with default stdout/stderr writers.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	bold          = color.New(color.Bold).SprintFunc()
	faint         = color.New(color.Faint).SprintFunc()
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	blue          = color.New(color.FgHiBlue).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	orange        = color.New(color.FgYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
)

// Cyan returns a cyan-colored string.
func Cyan(s string) string { return cyan(s) }

// Bold returns a bold string.
func Bold(s string) string { return bold(s) }

// Faint returns a dimmed string.
func Faint(s string) string { return faint(s) }

// PriorityColor colors s by an issue priority level name.
func PriorityColor(level, s string) string {
	switch level {
	case "urgent":
		return red(s)
	case "high":
		return orange(s)
	case "medium":
		return yellow(s)
	case "low":
		return blue(s)
	default:
		return faint(s)
	}
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}

// Buckets prints each non-empty section as a heading followed by a table.
// Empty sections are listed with a zero count only in verbose mode.
func (u *UI) Buckets(b inbox.Buckets) error {
	if b.IsEmpty() {
		u.Info("No issues")
		return nil
	}

	for _, section := range b.Sections() {
		if len(section.Issues) == 0 {
			u.VerboseLog("%s (0)", section.Title())
			continue
		}
		fmt.Fprintf(u.Out, "%s %s\n", bold(section.Title()), faint(fmt.Sprintf("(%d)", len(section.Issues))))
		if err := u.Issues(section.Issues); err != nil {
			return err
		}
		fmt.Fprintln(u.Out)
	}
	return nil
}

// Issues prints issues as a table.
func (u *UI) Issues(issues []linearapi.Issue) error {
	table := u.Table([]string{"ID", "Priority", "State", "Title"})
	for _, issue := range issues {
		label := issue.PriorityLabel
		if label == "" {
			label = "No priority"
		}
		if err := table.Append([]string{
			cyan(issue.Identifier),
			PriorityColor(issue.PriorityLevel(), label),
			issue.State.Name,
			issue.Title,
		}); err != nil {
			return fmt.Errorf("append issue row: %w", err)
		}
	}
	return table.Render()
}

// Projects prints projects as a table.
func (u *UI) Projects(projects []linearapi.Project) error {
	if len(projects) == 0 {
		u.Info("No projects")
		return nil
	}
	table := u.Table([]string{"Name", "ID", "Color"})
	for _, p := range projects {
		if err := table.Append([]string{bold(p.Name), faint(p.ID), p.Color}); err != nil {
			return fmt.Errorf("append project row: %w", err)
		}
	}
	return table.Render()
}

// Favorites prints favorites as a table. Entries that cannot be opened show
// no URL.
func (u *UI) Favorites(favorites []linearapi.Favorite) error {
	if len(favorites) == 0 {
		u.Info("No favorites")
		return nil
	}
	table := u.Table([]string{"", "Name", "Kind", "URL"})
	for _, f := range favorites {
		if err := table.Append([]string{f.Kind.Icon(), f.Name, string(f.Kind), faint(f.URL)}); err != nil {
			return fmt.Errorf("append favorite row: %w", err)
		}
	}
	return table.Render()
}
