package linearapi

// StateType is the coarse workflow state category the inbox understands.
type StateType int

const (
	// StateUnknown covers completed, canceled, triage and any unrecognized type.
	StateUnknown StateType = iota
	StateStarted
	StateUnstarted
	StateBacklog
)

// ParseStateType maps Linear's raw state type onto a StateType.
// Every input has a result; unrecognized values map to StateUnknown.
func ParseStateType(raw string) StateType {
	switch raw {
	case "started":
		return StateStarted
	case "unstarted":
		return StateUnstarted
	case "backlog":
		return StateBacklog
	default:
		return StateUnknown
	}
}

// String returns Linear's raw name for the type.
func (s StateType) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateUnstarted:
		return "unstarted"
	case StateBacklog:
		return "backlog"
	default:
		return "unknown"
	}
}

// DisplayName returns the coarse label shown for the type.
func (s StateType) DisplayName() string {
	switch s {
	case StateStarted:
		return "In Progress"
	case StateUnstarted:
		return "Todo"
	case StateBacklog:
		return "Backlog"
	default:
		return ""
	}
}

// SortOrder orders types for display; unknown types sort last.
func (s StateType) SortOrder() int {
	switch s {
	case StateStarted:
		return 0
	case StateUnstarted:
		return 1
	case StateBacklog:
		return 2
	default:
		return 3
	}
}

// WorkflowState is the state an issue currently occupies.
type WorkflowState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // raw: backlog, unstarted, started, completed, canceled, triage
}

// StateType parses the raw type.
func (w WorkflowState) StateType() StateType {
	return ParseStateType(w.Type)
}

// Issue is an issue as returned by the inbox queries.
type Issue struct {
	ID            string        `json:"id"`
	Identifier    string        `json:"identifier"`
	Title         string        `json:"title"`
	Priority      int           `json:"priority"` // 0 = none, 1 = urgent ... 4 = low
	PriorityLabel string        `json:"priorityLabel"`
	URL           string        `json:"url"`
	State         WorkflowState `json:"state"`
}

// PriorityLevel returns the name used to color the priority indicator.
func (i Issue) PriorityLevel() string {
	switch i.Priority {
	case 1:
		return "urgent"
	case 2:
		return "high"
	case 3:
		return "medium"
	case 4:
		return "low"
	default:
		return "none"
	}
}

// Project is a project visible to the user.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// FavoriteKind is the kind of entity a favorite points at.
type FavoriteKind string

const (
	FavoriteKindIssue          FavoriteKind = "issue"
	FavoriteKindProject        FavoriteKind = "project"
	FavoriteKindCustomView     FavoriteKind = "customView"
	FavoriteKindCycle          FavoriteKind = "cycle"
	FavoriteKindLabel          FavoriteKind = "label"
	FavoriteKindPredefinedView FavoriteKind = "predefinedView"
	FavoriteKindUnknown        FavoriteKind = "unknown"
)

// ParseFavoriteKind decodes Linear's raw favorite type. Every input has a
// result; unrecognized values map to FavoriteKindUnknown.
func ParseFavoriteKind(raw string) FavoriteKind {
	switch raw {
	case "issue":
		return FavoriteKindIssue
	case "project":
		return FavoriteKindProject
	case "customView":
		return FavoriteKindCustomView
	case "cycle":
		return FavoriteKindCycle
	case "label":
		return FavoriteKindLabel
	case "predefinedViewType", "predefinedView":
		return FavoriteKindPredefinedView
	default:
		return FavoriteKindUnknown
	}
}

// Icon returns a single-glyph marker for the kind.
func (k FavoriteKind) Icon() string {
	switch k {
	case FavoriteKindIssue:
		return "◇"
	case FavoriteKindProject:
		return "▣"
	case FavoriteKindCustomView, FavoriteKindPredefinedView:
		return "≡"
	case FavoriteKindCycle:
		return "↻"
	case FavoriteKindLabel:
		return "◆"
	default:
		return "★"
	}
}

// Favorite is a normalized favorite ready for display.
// Empty Icon, Color or URL mean absent; without a URL the entry cannot be opened.
type Favorite struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Kind  FavoriteKind `json:"kind"`
	Icon  string       `json:"icon,omitempty"`
	Color string       `json:"color,omitempty"`
	URL   string       `json:"url,omitempty"`
}

// Navigable reports whether the favorite can be opened.
func (f Favorite) Navigable() bool {
	return f.URL != ""
}
