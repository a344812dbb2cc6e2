package linearapi

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FavoriteNode is a raw favorite as returned by the favorites query. It is
// decoded directly by the GraphQL client, so field names double as the
// query's selection set. At most one of the payload fields is set.
type FavoriteNode struct {
	ID                 string
	Type               string
	PredefinedViewType *string
	Issue              *FavoriteIssue
	Project            *FavoriteProject
	CustomView         *FavoriteCustomView
	Cycle              *FavoriteCycle
	Label              *FavoriteLabel
}

// FavoriteTarget is the entity a favorite points at. It is implemented by
// exactly the six payload types below.
type FavoriteTarget interface {
	favoriteTarget()
}

// FavoriteIssue is the issue payload of a favorite.
type FavoriteIssue struct {
	ID         string
	Identifier string
	Title      string
	URL        string
}

// FavoriteProject is the project payload of a favorite.
type FavoriteProject struct {
	ID    string
	Name  string
	Icon  *string
	Color *string
}

// FavoriteCustomView is the custom view payload of a favorite.
type FavoriteCustomView struct {
	ID    string
	Name  string
	Icon  *string
	Color *string
}

// FavoriteCycle is the cycle payload of a favorite. Cycles may be unnamed.
type FavoriteCycle struct {
	ID   string
	Name *string
}

// FavoriteLabel is the label payload of a favorite.
type FavoriteLabel struct {
	ID    string
	Name  string
	Color string
}

// PredefinedView is a built-in view such as "my_issues".
type PredefinedView string

func (*FavoriteIssue) favoriteTarget()      {}
func (*FavoriteProject) favoriteTarget()    {}
func (*FavoriteCustomView) favoriteTarget() {}
func (*FavoriteCycle) favoriteTarget()      {}
func (*FavoriteLabel) favoriteTarget()      {}
func (PredefinedView) favoriteTarget()      {}

// RawKind decodes the node's raw type tag.
func (n FavoriteNode) RawKind() FavoriteKind {
	return ParseFavoriteKind(n.Type)
}

// Target returns the populated payload, checked in the order issue, project,
// custom view, cycle, label, predefined view. It returns nil when the node
// carries no payload.
func (n FavoriteNode) Target() FavoriteTarget {
	switch {
	case n.Issue != nil:
		return n.Issue
	case n.Project != nil:
		return n.Project
	case n.CustomView != nil:
		return n.CustomView
	case n.Cycle != nil:
		return n.Cycle
	case n.Label != nil:
		return n.Label
	case n.PredefinedViewType != nil:
		return PredefinedView(*n.PredefinedViewType)
	default:
		return nil
	}
}

// NormalizeFavorite turns a raw node into a display record. The second
// result is false when the node has no payload or would have no name; such
// nodes are dropped rather than shown as unknown.
func NormalizeFavorite(n FavoriteNode) (Favorite, bool) {
	fav := Favorite{ID: n.ID}

	switch t := n.Target().(type) {
	case *FavoriteIssue:
		fav.Name = t.Identifier + ": " + t.Title
		fav.Kind = FavoriteKindIssue
		fav.URL = t.URL
	case *FavoriteProject:
		fav.Name = t.Name
		fav.Kind = FavoriteKindProject
		fav.Icon = deref(t.Icon)
		fav.Color = deref(t.Color)
		fav.URL = ProjectURL(t.ID)
	case *FavoriteCustomView:
		fav.Name = t.Name
		fav.Kind = FavoriteKindCustomView
		fav.Icon = deref(t.Icon)
		fav.Color = deref(t.Color)
		fav.URL = ViewURL(t.ID)
	case *FavoriteCycle:
		fav.Name = deref(t.Name)
		if fav.Name == "" {
			fav.Name = "Cycle"
		}
		fav.Kind = FavoriteKindCycle
	case *FavoriteLabel:
		fav.Name = t.Name
		fav.Kind = FavoriteKindLabel
		fav.Color = t.Color
	case PredefinedView:
		fav.Name = predefinedViewName(string(t))
		fav.Kind = FavoriteKindPredefinedView
	default:
		return Favorite{}, false
	}

	if strings.TrimSpace(fav.Name) == "" {
		return Favorite{}, false
	}
	return fav, true
}

// NormalizeFavorites normalizes nodes in order, dropping those without a payload.
func NormalizeFavorites(nodes []FavoriteNode) []Favorite {
	favorites := make([]Favorite, 0, len(nodes))
	for _, node := range nodes {
		if fav, ok := NormalizeFavorite(node); ok {
			favorites = append(favorites, fav)
		}
	}
	return favorites
}

// predefinedViewName turns "my_issues" into "My Issues".
func predefinedViewName(raw string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(raw, "_", " "))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
