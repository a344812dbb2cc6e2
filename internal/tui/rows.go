package tui

import (
	"strconv"

	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
)

// projectSectionPrefix namespaces section flags of the project issue view.
const projectSectionPrefix = "project_"

// RowKind is the kind of a list row.
type RowKind int

const (
	RowSection RowKind = iota
	RowIssue
	RowProject
	RowFavorite
	RowMessage
)

// Row is one line of the main list.
type Row struct {
	Kind RowKind

	// Section rows.
	SectionKey string
	Title      string
	Count      int
	Expanded   bool

	// Message rows use Title and Detail.
	Detail string

	Issue    linearapi.Issue
	Project  linearapi.Project
	Favorite linearapi.Favorite
}

// URL returns the link a row opens, or "" when it has none.
func (r Row) URL() string {
	switch r.Kind {
	case RowIssue:
		return r.Issue.URL
	case RowFavorite:
		return r.Favorite.URL
	default:
		return ""
	}
}

// Selectable reports whether the row reacts to Enter.
func (r Row) Selectable() bool {
	switch r.Kind {
	case RowSection, RowIssue, RowProject:
		return true
	case RowFavorite:
		return r.Favorite.Navigable()
	default:
		return false
	}
}

// issueRows lists non-empty sections with their issues when expanded. An
// empty result that is not loading shows a message instead.
func issueRows(b inbox.Buckets, prefs config.Preferences, keyPrefix string, loading bool, emptyTitle, emptyDetail string) []Row {
	var rows []Row
	for _, section := range b.Sections() {
		if len(section.Issues) == 0 {
			continue
		}
		key := keyPrefix + section.Key()
		expanded := prefs.SectionExpanded(key)
		rows = append(rows, Row{
			Kind:       RowSection,
			SectionKey: key,
			Title:      section.Title(),
			Count:      len(section.Issues),
			Expanded:   expanded,
		})
		if !expanded {
			continue
		}
		for _, issue := range section.Issues {
			rows = append(rows, Row{Kind: RowIssue, Issue: issue})
		}
	}
	if len(rows) == 0 && !loading {
		rows = append(rows, Row{Kind: RowMessage, Title: emptyTitle, Detail: emptyDetail})
	}
	return rows
}

func projectRows(projects []linearapi.Project, loading bool) []Row {
	if len(projects) == 0 {
		if loading {
			return nil
		}
		return []Row{{Kind: RowMessage, Title: "No projects", Detail: "You don't have access to any projects"}}
	}
	rows := make([]Row, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, Row{Kind: RowProject, Project: p})
	}
	return rows
}

func favoriteRows(favorites []linearapi.Favorite, loading bool) []Row {
	if len(favorites) == 0 {
		if loading {
			return nil
		}
		return []Row{{Kind: RowMessage, Title: "No favorites", Detail: "Star items in Linear to see them here"}}
	}
	rows := make([]Row, 0, len(favorites))
	for _, f := range favorites {
		rows = append(rows, Row{Kind: RowFavorite, Favorite: f})
	}
	return rows
}

// buildRows returns the rows for the current view.
func buildRows(s inbox.State, tab config.Tab, prefs config.Preferences) []Row {
	if s.SelectedProject != nil {
		return issueRows(s.ProjectBuckets, prefs, projectSectionPrefix,
			s.ProjectPhase == inbox.PhaseLoading, "No issues", "This project has no active issues")
	}
	switch tab {
	case config.TabProjects:
		return projectRows(s.Projects, s.Loading())
	case config.TabFavorites:
		return favoriteRows(s.Favorites, s.Loading())
	default:
		return issueRows(s.Buckets, prefs, "", s.Loading(), "All clear!", "No issues assigned to you")
	}
}

// footerCount returns the count text for the current view.
func footerCount(s inbox.State, tab config.Tab) string {
	if s.SelectedProject != nil {
		return plural(s.ProjectBuckets.Total(), "issue")
	}
	switch tab {
	case config.TabProjects:
		return plural(len(s.Projects), "project")
	case config.TabFavorites:
		return plural(len(s.Favorites), "favorite")
	default:
		return plural(s.Buckets.Total(), "issue")
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
