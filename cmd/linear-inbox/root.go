package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/credential"
	"github.com/roeyazroel/linear-inbox/internal/desktop"
	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/roeyazroel/linear-inbox/internal/logger"
	"github.com/roeyazroel/linear-inbox/internal/output"
	"github.com/roeyazroel/linear-inbox/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Package-level shared dependencies, initialized in the root PersistentPreRunE.
var (
	ui    *output.UI
	cfg   config.Config
	store credential.Store

	// newAPI builds the Linear client over store. Replaceable in tests.
	newAPI = func() inbox.API {
		return linearapi.NewClient(linearapi.ClientConfig{
			Credentials: store,
			Endpoint:    cfg.APIEndpoint,
			Timeout:     cfg.Timeout,
		})
	}
	opener    tui.URLOpener  = desktop.NewOpener()
	loginItem loginRegistrar = desktop.LoginItem{}

	cfgFile           string
	credentialBackend string
	verbose           bool
)

// loginRegistrar is the launch at login entry.
type loginRegistrar interface {
	tui.LoginItem
	Path() (string, error)
}

var rootCmd = &cobra.Command{
	Use:   "linear-inbox",
	Short: "Your Linear issues, sorted by what needs attention",
	Long: `linear-inbox shows the Linear issues assigned to you, grouped into
Ready to Merge, In Review, In Progress, Todo and Backlog.

Running bare 'linear-inbox' opens the interactive inbox.`,
	Version:           VersionInfo(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initDeps(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/linear-inbox/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&credentialBackend, "credential", "", "Credential backend: keyring, file or memory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

// initDeps loads configuration, starts the logger and opens the credential store.
func initDeps(cmd *cobra.Command) error {
	ui = output.New()
	ui.Verbose = verbose

	loaded, err := config.Load(viper.New(), cfgFile)
	if err != nil {
		return err
	}
	if credentialBackend != "" {
		loaded.CredentialBackend = strings.ToLower(credentialBackend)
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	if err := logger.Init(cfg.LogFile, logger.ParseLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Info("Application starting version=%s command=%s", Version, cmd.Name())
	logger.Debug("Configuration: APIEndpoint=%s, Timeout=%s, CredentialBackend=%s",
		cfg.APIEndpoint, cfg.Timeout, cfg.CredentialBackend)

	s, err := credential.New(cfg.CredentialBackend, cfg.CredentialFile)
	if err != nil {
		return err
	}
	store = s
	ui.VerboseLog("Using %s credential backend", cfg.CredentialBackend)
	return nil
}

// loadPreferences reads saved preferences, falling back to defaults.
func loadPreferences() config.Preferences {
	prefs, err := config.LoadPreferences(cfg.PreferencesFile)
	if err != nil {
		logger.Warning("Failed to load preferences path=%s error=%v", cfg.PreferencesFile, err)
		return config.DefaultPreferences()
	}
	return prefs
}

// runTUI opens the interactive inbox.
func runTUI() error {
	controller := inbox.NewController(newAPI(), store)
	scheduler := inbox.NewScheduler(func() {
		_ = controller.Refresh(context.Background())
	})

	app := tui.NewApp(tui.Options{
		Controller:      controller,
		Scheduler:       scheduler,
		Preferences:     loadPreferences(),
		PreferencesPath: cfg.PreferencesFile,
		Opener:          opener,
		CopyText:        desktop.CopyToClipboard,
		LoginItem:       loginItem,
	})

	if err := app.Run(); err != nil {
		logger.ErrorWithErr(err, "Application error")
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
