package inbox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
)

// Markdown renders buckets as a markdown digest, one heading per non-empty
// section. Title is used as the document heading when set.
func Markdown(title string, b Buckets) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}

	if b.IsEmpty() {
		sb.WriteString("_No issues._\n")
		return sb.String()
	}

	for _, section := range b.Sections() {
		if len(section.Issues) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s (%d)\n\n", section.Title(), len(section.Issues))
		for _, issue := range section.Issues {
			sb.WriteString(markdownIssueLine(issue))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func markdownIssueLine(issue linearapi.Issue) string {
	label := issue.PriorityLabel
	if label == "" {
		label = "No priority"
	}
	// Escape brackets so titles cannot break the link syntax.
	title := strings.NewReplacer("[", `\[`, "]", `\]`).Replace(issue.Title)
	if issue.URL == "" {
		return fmt.Sprintf("- **%s** %s _(%s)_\n", issue.Identifier, title, label)
	}
	return fmt.Sprintf("- [**%s**](%s) %s _(%s)_\n", issue.Identifier, issue.URL, title, label)
}

// RenderMarkdown styles markdown for the terminal. Style is a glamour
// standard style name ("dark", "light", "notty"); empty picks one from the
// terminal background.
func RenderMarkdown(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
