package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/spf13/cobra"
)

// ErrNotLinearURL is returned by open for links outside linear.app.
var ErrNotLinearURL = errors.New("not a Linear URL")

type issuesOptions struct {
	projectID string
	render    bool
	style     string
	width     int
	json      bool
}

var (
	issuesOpts    issuesOptions
	projectsJSON  bool
	favoritesJSON bool
	openWeb       bool
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List your assigned issues by section",
	Long: `List the issues assigned to you, grouped into sections and sorted by
priority. With --project, list the active issues of one project instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return issuesRun(cmd.Context(), newAPI(), issuesOpts)
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectsRun(cmd.Context(), newAPI(), projectsJSON)
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List your Linear favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return favoritesRun(cmd.Context(), newAPI(), favoritesJSON)
	},
}

var openCmd = &cobra.Command{
	Use:   "open URL",
	Short: "Open a Linear link in the desktop app",
	Long: `Open a linear.app link in the Linear desktop app. With --web the link
opens in the browser instead. Links outside linear.app are refused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return openRun(args[0], openWeb)
	},
}

func init() {
	issuesCmd.Flags().StringVar(&issuesOpts.projectID, "project", "", "List issues of this project ID")
	issuesCmd.Flags().BoolVar(&issuesOpts.render, "render", false, "Render a markdown digest")
	issuesCmd.Flags().StringVar(&issuesOpts.style, "style", "", "Digest style: dark, light, notty (default auto)")
	issuesCmd.Flags().IntVar(&issuesOpts.width, "width", 100, "Digest word wrap width")
	issuesCmd.Flags().BoolVar(&issuesOpts.json, "json", false, "Print sections as JSON")
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "Print projects as JSON")
	favoritesCmd.Flags().BoolVar(&favoritesJSON, "json", false, "Print favorites as JSON")
	openCmd.Flags().BoolVar(&openWeb, "web", false, "Open in the browser")

	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(openCmd)
}

func issuesRun(ctx context.Context, api inbox.API, opts issuesOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	title := "My Issues"
	var (
		issues []linearapi.Issue
		err    error
	)
	if opts.projectID != "" {
		title = "Project Issues"
		issues, err = api.FetchProjectIssues(ctx, opts.projectID)
	} else {
		issues, err = api.FetchAssignedIssues(ctx)
	}
	if err != nil {
		return err
	}
	buckets := inbox.Classify(issues)
	ui.VerboseLog("Fetched %d issues, %d in sections", len(issues), buckets.Total())

	switch {
	case opts.json:
		return writeJSON(buckets)
	case opts.render:
		rendered, err := inbox.RenderMarkdown(inbox.Markdown(title, buckets), opts.style, opts.width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(ui.Out, rendered)
		return err
	default:
		return ui.Buckets(buckets)
	}
}

func projectsRun(ctx context.Context, api inbox.API, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	projects, err := api.FetchProjects(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(projects)
	}
	return ui.Projects(projects)
}

func favoritesRun(ctx context.Context, api inbox.API, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	favorites, err := api.FetchFavorites(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(favorites)
	}
	return ui.Favorites(favorites)
}

func openRun(rawURL string, web bool) error {
	opened, err := opener.OpenIssue(rawURL, web)
	if err != nil {
		return err
	}
	if !opened {
		return fmt.Errorf("%w: %s", ErrNotLinearURL, rawURL)
	}
	ui.VerboseLog("Opened %s", rawURL)
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
