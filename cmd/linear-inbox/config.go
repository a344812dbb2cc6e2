package main

import (
	"fmt"

	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configYAML bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show linear-inbox configuration.

Running bare 'linear-inbox config' is the same as 'linear-inbox config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun(configYAML)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration and preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun(configYAML)
	},
}

func init() {
	configCmd.PersistentFlags().BoolVar(&configYAML, "yaml", false, "Print as YAML")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// effectiveConfig is the printable view of the configuration. The API key
// is never part of it.
type effectiveConfig struct {
	ConfigFile        string `yaml:"config_file"`
	APIEndpoint       string `yaml:"api_endpoint"`
	Timeout           string `yaml:"timeout"`
	LogFile           string `yaml:"log_file"`
	LogLevel          string `yaml:"log_level"`
	CredentialBackend string `yaml:"credential_backend"`
	CredentialFile    string `yaml:"credential_file,omitempty"`
	PreferencesFile   string `yaml:"preferences_file"`
	SelectedTab       string `yaml:"selected_tab"`
	AutoRefresh       string `yaml:"auto_refresh"`
}

func currentConfig() effectiveConfig {
	prefs := loadPreferences()

	var ec effectiveConfig
	ec.ConfigFile = cfg.ConfigFile
	if ec.ConfigFile == "" {
		ec.ConfigFile = "(none)"
	}
	ec.APIEndpoint = cfg.APIEndpoint
	ec.Timeout = cfg.Timeout.String()
	ec.LogFile = cfg.LogFile
	ec.LogLevel = cfg.LogLevel
	ec.CredentialBackend = cfg.CredentialBackend
	if cfg.CredentialBackend == config.BackendFile {
		ec.CredentialFile = cfg.CredentialFile
	}
	ec.PreferencesFile = cfg.PreferencesFile
	ec.SelectedTab = string(prefs.SelectedTab)
	ec.AutoRefresh = "off"
	if d := prefs.AutoRefreshInterval(); d > 0 {
		ec.AutoRefresh = d.String()
	}
	return ec
}

func configShowRun(asYAML bool) error {
	ec := currentConfig()
	if asYAML {
		data, err := yaml.Marshal(ec)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, err = ui.Out.Write(data)
		return err
	}

	table := ui.Table([]string{"Key", "Value"})
	rows := [][]string{
		{"config_file", ec.ConfigFile},
		{"api_endpoint", ec.APIEndpoint},
		{"timeout", ec.Timeout},
		{"log_file", ec.LogFile},
		{"log_level", ec.LogLevel},
		{"credential.backend", ec.CredentialBackend},
	}
	if ec.CredentialFile != "" {
		rows = append(rows, []string{"credential.file", ec.CredentialFile})
	}
	rows = append(rows,
		[]string{"preferences_file", ec.PreferencesFile},
		[]string{"selected_tab", ec.SelectedTab},
		[]string{"auto_refresh", ec.AutoRefresh},
	)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
