package inbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/roeyazroel/linear-inbox/internal/credential"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/roeyazroel/linear-inbox/internal/logger"
	"golang.org/x/sync/singleflight"
)

// API is the subset of the Linear client the controller needs.
type API interface {
	FetchAssignedIssues(ctx context.Context) ([]linearapi.Issue, error)
	FetchFavorites(ctx context.Context) ([]linearapi.Favorite, error)
	FetchProjects(ctx context.Context) ([]linearapi.Project, error)
	FetchProjectIssues(ctx context.Context, projectID string) ([]linearapi.Issue, error)
}

// Phase is the refresh lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of everything the presentation layer renders.
type State struct {
	Phase       Phase
	LastUpdated time.Time // zero until the first successful refresh
	Err         error     // set in PhaseError

	Buckets   Buckets
	Favorites []linearapi.Favorite
	Projects  []linearapi.Project

	// SelectedProject scopes the project issue view; nil shows the project list.
	SelectedProject *linearapi.Project
	ProjectPhase    Phase
	ProjectErr      error
	ProjectBuckets  Buckets

	// HasAPIKey records whether a key was stored at the last check. It is
	// updated on refresh and on every key save or clear.
	HasAPIKey bool

	// ShowSettings asks the presentation to show API key setup.
	ShowSettings bool
}

// ErrorMessage returns the user-facing failure text, or "" when not failed.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Loading reports whether a refresh is in flight.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller orchestrates refreshes and owns the inbox state.
// All methods are safe for concurrent use.
type Controller struct {
	api   API
	store credential.Store
	now   func() time.Time

	flight singleflight.Group

	mu        sync.Mutex
	state     State
	listeners []func(State)
}

// NewController creates a controller over api and store.
func NewController(api API, store credential.Store, opts ...Option) *Controller {
	c := &Controller{
		api:   api,
		store: store,
		now:   time.Now,
		state: State{
			Buckets:        Classify(nil),
			ProjectBuckets: Classify(nil),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.HasAPIKey = store.Exists()
	return c
}

// OnChange registers fn to receive a snapshot after every state change.
// Callbacks run on the goroutine that caused the change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasAPIKey reports key presence as of the last check, without touching the
// credential store.
func (c *Controller) HasAPIKey() bool {
	return c.State().HasAPIKey
}

// update applies fn under the lock and notifies listeners with the result.
func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Refresh reloads assigned issues, favorites and projects, in that order.
// A refresh requested while one is in flight waits for and shares its
// result. Without a stored key the controller only raises ShowSettings.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.store.Exists() {
		logger.Info("inbox.controller: refresh skipped, no API key")
		c.update(func(s *State) {
			s.HasAPIKey = false
			s.ShowSettings = true
		})
		return linearapi.ErrNoAPIKey
	}
	if !c.State().HasAPIKey {
		c.update(func(s *State) { s.HasAPIKey = true })
	}

	_, err, shared := c.flight.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(ctx)
	})
	if shared {
		logger.Debug("inbox.controller: joined in-flight refresh")
	}
	return err
}

func (c *Controller) refresh(ctx context.Context) error {
	logger.Debug("inbox.controller: refresh started")
	c.update(func(s *State) {
		s.Phase = PhaseLoading
		s.Err = nil
	})

	issues, err := c.api.FetchAssignedIssues(ctx)
	if err != nil {
		return c.fail(err)
	}
	buckets := Classify(issues)
	c.update(func(s *State) { s.Buckets = buckets })

	favorites, err := c.api.FetchFavorites(ctx)
	if err != nil {
		return c.fail(err)
	}
	c.update(func(s *State) { s.Favorites = favorites })

	projects, err := c.api.FetchProjects(ctx)
	if err != nil {
		return c.fail(err)
	}

	now := c.now()
	c.update(func(s *State) {
		s.Projects = projects
		s.Phase = PhaseLoaded
		s.LastUpdated = now
	})
	logger.Info("inbox.controller: refresh complete issues=%d favorites=%d projects=%d",
		buckets.Total(), len(favorites), len(projects))
	return nil
}

// fail records err as the refresh outcome and returns it.
func (c *Controller) fail(err error) error {
	logger.ErrorWithErr(err, "inbox.controller: refresh failed")
	noKey := errors.Is(err, linearapi.ErrNoAPIKey)
	c.update(func(s *State) {
		s.Phase = PhaseError
		s.Err = err
		if noKey {
			s.HasAPIKey = false
			s.ShowSettings = true
		}
	})
	return err
}

// SelectProject scopes the project view to project and loads its issues.
func (c *Controller) SelectProject(ctx context.Context, project linearapi.Project) error {
	selected := project
	c.update(func(s *State) {
		s.SelectedProject = &selected
		s.ProjectBuckets = Classify(nil)
		s.ProjectErr = nil
	})
	return c.RefreshProject(ctx)
}

// ClearProject returns the project view to the project list.
func (c *Controller) ClearProject() {
	c.update(func(s *State) {
		s.SelectedProject = nil
		s.ProjectPhase = PhaseIdle
		s.ProjectErr = nil
		s.ProjectBuckets = Classify(nil)
	})
}

// RefreshProject reloads the issues of the selected project. It is a no-op
// when no project is selected.
func (c *Controller) RefreshProject(ctx context.Context) error {
	current := c.State().SelectedProject
	if current == nil {
		return nil
	}
	projectID := current.ID

	_, err, _ := c.flight.Do("project:"+projectID, func() (interface{}, error) {
		c.update(func(s *State) {
			s.ProjectPhase = PhaseLoading
			s.ProjectErr = nil
		})

		issues, err := c.api.FetchProjectIssues(ctx, projectID)
		if err != nil {
			logger.ErrorWithErr(err, "inbox.controller: project refresh failed project=%s", projectID)
		}
		noKey := errors.Is(err, linearapi.ErrNoAPIKey)
		buckets := Classify(issues)

		c.update(func(s *State) {
			// Drop the result if the user navigated elsewhere meanwhile.
			if s.SelectedProject == nil || s.SelectedProject.ID != projectID {
				return
			}
			if err != nil {
				s.ProjectPhase = PhaseError
				s.ProjectErr = err
				if noKey {
					s.HasAPIKey = false
					s.ShowSettings = true
				}
				return
			}
			s.ProjectPhase = PhaseLoaded
			s.ProjectBuckets = buckets
		})
		return nil, err
	})
	return err
}

// SaveAPIKey stores key, hides settings and refreshes. Only storage
// failures are returned; the refresh outcome is reported through State.
func (c *Controller) SaveAPIKey(ctx context.Context, key string) error {
	if err := c.store.Save(key); err != nil {
		logger.ErrorWithErr(err, "inbox.controller: failed to save API key")
		return fmt.Errorf("save API key: %w", err)
	}
	logger.Info("inbox.controller: API key saved")
	c.update(func(s *State) {
		s.HasAPIKey = true
		s.ShowSettings = false
	})
	_ = c.Refresh(ctx)
	return nil
}

// ClearAPIKey deletes the stored key and resets all data.
func (c *Controller) ClearAPIKey() error {
	if err := c.store.Delete(); err != nil {
		logger.ErrorWithErr(err, "inbox.controller: failed to clear API key")
		return fmt.Errorf("clear API key: %w", err)
	}
	logger.Info("inbox.controller: API key cleared")
	c.update(func(s *State) {
		*s = State{
			Buckets:        Classify(nil),
			ProjectBuckets: Classify(nil),
			ShowSettings:   true,
		}
	})
	return nil
}

// OpenSettings raises the ShowSettings signal.
func (c *Controller) OpenSettings() {
	c.update(func(s *State) { s.ShowSettings = true })
}

// DismissSettings clears the ShowSettings signal.
func (c *Controller) DismissSettings() {
	c.update(func(s *State) { s.ShowSettings = false })
}

// TotalIssueCount returns the number of classified assigned issues.
func (c *Controller) TotalIssueCount() int {
	return c.State().Buckets.Total()
}

// LastUpdatedText describes the last successful refresh relative to now.
func (c *Controller) LastUpdatedText(now time.Time) string {
	return RelativeTime(c.State().LastUpdated, now)
}

// RelativeTime formats t relative to now in abbreviated units, or "Never"
// for the zero time.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min. ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hr. ago", int(d/time.Hour))
	default:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
