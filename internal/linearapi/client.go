package linearapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roeyazroel/linear-inbox/internal/logger"
	"github.com/shurcooL/graphql"
)

const (
	// DefaultEndpoint is the default Linear API GraphQL endpoint.
	DefaultEndpoint = "https://api.linear.app/graphql"
)

// Credentials supplies the API key for each request.
type Credentials interface {
	Get() (string, error)
}

// ClientConfig contains configuration for creating a new Linear API client.
type ClientConfig struct {
	// Credentials provides the Linear API key. Operations fail with
	// ErrNoAPIKey when it cannot produce one.
	Credentials Credentials
	// Endpoint is the GraphQL API endpoint (defaults to Linear's production endpoint).
	Endpoint string
	// HTTPClient is an optional custom HTTP client (useful for testing).
	HTTPClient *http.Client
	// Timeout is the HTTP request timeout (defaults to 30s).
	Timeout time.Duration
}

// Client is a client for the four inbox queries of the Linear GraphQL API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	creds      Credentials
	client     *graphql.Client
}

// NewClient creates a new Linear API client with the provided configuration.
func NewClient(cfg ClientConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		// Copy so the caller's client keeps its own transport.
		clone := *cfg.HTTPClient
		base := clone.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		clone.Transport = &authTransport{Base: &envelopeTransport{Base: base}}
		httpClient = &clone
	} else {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{Base: &envelopeTransport{Base: http.DefaultTransport}},
		}
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		creds:      cfg.Credentials,
		client:     graphql.NewClient(endpoint, httpClient),
	}
}

// Endpoint returns the GraphQL endpoint being used.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type tokenKey struct{}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// authTransport adds the Authorization and Content-Type headers to requests.
// The raw key is sent without a scheme prefix, as Linear expects for API keys.
type authTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if token, ok := req.Context().Value(tokenKey{}).(string); ok {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.Base == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	return t.Base.RoundTrip(req)
}

// envelopeTransport applies the response policy shared by every query before
// the GraphQL client decodes the data: non-200 statuses, unparseable
// envelopes, reported errors and missing data all become *Error values.
type envelopeTransport struct {
	Base http.RoundTripper
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// RoundTrip implements http.RoundTripper.
func (t *envelopeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, graphQLError("Invalid API key")
		}
		return nil, graphQLError(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return nil, &Error{Kind: KindDecoding, Err: errors.New("response body is not a JSON object")}
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Kind: KindDecoding, Err: err}
	}
	if len(env.Errors) > 0 {
		messages := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			messages = append(messages, e.Message)
		}
		return nil, graphQLError(strings.Join(messages, ", "))
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, ErrInvalidResponse
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

// query runs a GraphQL query after checking for a stored key. No request is
// made when the key is missing.
func (c *Client) query(ctx context.Context, name string, q interface{}, variables map[string]interface{}) error {
	if c.creds == nil {
		return ErrNoAPIKey
	}
	token, err := c.creds.Get()
	if err != nil || token == "" {
		logger.Debug("API: %s skipped, no API key", name)
		return ErrNoAPIKey
	}

	if err := c.client.Query(withToken(ctx, token), q, variables); err != nil {
		classified := classifyError(err)
		logger.ErrorWithErr(classified, "API: %s failed", name)
		return classified
	}
	return nil
}

// issueNode is the field set requested for every issue.
type issueNode struct {
	ID            graphql.String
	Identifier    graphql.String
	Title         graphql.String
	Priority      graphql.Float
	PriorityLabel graphql.String
	URL           graphql.String
	State         struct {
		ID   graphql.String
		Name graphql.String
		Type graphql.String
	}
}

func (n issueNode) toIssue() Issue {
	return Issue{
		ID:            string(n.ID),
		Identifier:    string(n.Identifier),
		Title:         string(n.Title),
		Priority:      int(n.Priority),
		PriorityLabel: string(n.PriorityLabel),
		URL:           string(n.URL),
		State: WorkflowState{
			ID:   string(n.State.ID),
			Name: string(n.State.Name),
			Type: string(n.State.Type),
		},
	}
}

// missingField reports a response that parsed but lacks a required selection.
func missingField(path string) *Error {
	return &Error{Kind: KindDecoding, Err: fmt.Errorf("missing %s in response data", path)}
}

func toIssues(nodes []issueNode) []Issue {
	issues := make([]Issue, 0, len(nodes))
	for _, node := range nodes {
		issues = append(issues, node.toIssue())
	}
	return issues
}

// FetchAssignedIssues fetches the issues assigned to the authenticated user.
func (c *Client) FetchAssignedIssues(ctx context.Context) ([]Issue, error) {
	var query struct {
		Viewer *struct {
			AssignedIssues struct {
				Nodes []issueNode
			}
		}
	}

	if err := c.query(ctx, "FetchAssignedIssues", &query, nil); err != nil {
		return nil, err
	}
	if query.Viewer == nil || query.Viewer.AssignedIssues.Nodes == nil {
		return nil, missingField("viewer.assignedIssues.nodes")
	}
	return toIssues(query.Viewer.AssignedIssues.Nodes), nil
}

// FetchFavorites fetches the user's favorites, dropping those with no payload.
func (c *Client) FetchFavorites(ctx context.Context) ([]Favorite, error) {
	var query struct {
		Favorites *struct {
			Nodes []FavoriteNode
		}
	}

	if err := c.query(ctx, "FetchFavorites", &query, nil); err != nil {
		return nil, err
	}
	if query.Favorites == nil || query.Favorites.Nodes == nil {
		return nil, missingField("favorites.nodes")
	}

	favorites := NormalizeFavorites(query.Favorites.Nodes)
	if dropped := len(query.Favorites.Nodes) - len(favorites); dropped > 0 {
		logger.Debug("API: FetchFavorites dropped %d favorites without a payload", dropped)
	}
	return favorites, nil
}

// FetchProjects fetches the projects visible to the user.
func (c *Client) FetchProjects(ctx context.Context) ([]Project, error) {
	var query struct {
		Projects *struct {
			Nodes []struct {
				ID    graphql.String
				Name  graphql.String
				Icon  *graphql.String
				Color *graphql.String
			}
		}
	}

	if err := c.query(ctx, "FetchProjects", &query, nil); err != nil {
		return nil, err
	}
	if query.Projects == nil || query.Projects.Nodes == nil {
		return nil, missingField("projects.nodes")
	}

	projects := make([]Project, 0, len(query.Projects.Nodes))
	for _, node := range query.Projects.Nodes {
		project := Project{
			ID:   string(node.ID),
			Name: string(node.Name),
		}
		if node.Icon != nil {
			project.Icon = string(*node.Icon)
		}
		if node.Color != nil {
			project.Color = string(*node.Color)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// FetchProjectIssues fetches the issues of one project.
func (c *Client) FetchProjectIssues(ctx context.Context, projectID string) ([]Issue, error) {
	var query struct {
		Project *struct {
			Issues struct {
				Nodes []issueNode
			}
		} `graphql:"project(id: $projectId)"`
	}

	variables := map[string]interface{}{
		"projectId": graphql.String(projectID),
	}

	if err := c.query(ctx, "FetchProjectIssues", &query, variables); err != nil {
		return nil, err
	}
	if query.Project == nil || query.Project.Issues.Nodes == nil {
		return nil, missingField("project.issues.nodes")
	}
	return toIssues(query.Project.Issues.Nodes), nil
}
