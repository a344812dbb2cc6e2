// Package config loads runtime configuration and persisted user preferences.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// LinearAPIKeyEnv is the environment variable that may carry an API key to import.
	LinearAPIKeyEnv = "LINEAR_API_KEY"
	// EnvPrefix prefixes every configuration override read from the environment.
	EnvPrefix = "LINEAR_INBOX"

	DefaultAPIEndpoint = "https://api.linear.app/graphql"
	DefaultTimeout     = 30 * time.Second
	DefaultLogLevel    = "warning"

	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

// Config holds the effective application configuration.
type Config struct {
	APIEndpoint       string
	Timeout           time.Duration
	LogFile           string
	LogLevel          string
	CredentialBackend string
	CredentialFile    string
	PreferencesFile   string

	// ConfigFile is the config file that was read, empty when none was found.
	ConfigFile string
}

// DirFunc returns the configuration directory. Replaceable in tests.
var DirFunc = defaultDir

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "linear-inbox"), nil
}

// SetDefaults registers default values on v, rooted at dir.
func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api_endpoint", DefaultAPIEndpoint)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_file", filepath.Join(dir, "linear-inbox.log"))
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("credential.backend", BackendKeyring)
	v.SetDefault("credential.file", filepath.Join(dir, "credential"))
	v.SetDefault("preferences_file", filepath.Join(dir, "preferences.yaml"))
}

// Load reads configuration into v from defaults, an optional config file and
// LINEAR_INBOX_* environment variables. When configFile is empty,
// config.yaml in the config directory is used if present.
func Load(v *viper.Viper, configFile string) (Config, error) {
	dir, err := DirFunc()
	if err != nil {
		return Config{}, err
	}

	SetDefaults(v, dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		APIEndpoint:       v.GetString("api_endpoint"),
		Timeout:           v.GetDuration("timeout"),
		LogFile:           v.GetString("log_file"),
		LogLevel:          v.GetString("log_level"),
		CredentialBackend: strings.ToLower(v.GetString("credential.backend")),
		CredentialFile:    v.GetString("credential.file"),
		PreferencesFile:   v.GetString("preferences_file"),
		ConfigFile:        v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	switch c.CredentialBackend {
	case BackendKeyring, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("unknown credential backend %q (want %s, %s or %s)",
			c.CredentialBackend, BackendKeyring, BackendFile, BackendMemory)
	}
	if c.CredentialBackend == BackendFile && c.CredentialFile == "" {
		return errors.New("credential.file is required for the file backend")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	u, err := url.Parse(c.APIEndpoint)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid api_endpoint %q", c.APIEndpoint)
	}
	if u.Scheme != "https" && !isLoopback(u.Hostname()) {
		return fmt.Errorf("api_endpoint must use https, got %q", c.APIEndpoint)
	}
	return nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// EnvAPIKey returns the API key from LINEAR_API_KEY, trimmed.
func EnvAPIKey() string {
	return strings.TrimSpace(os.Getenv(LinearAPIKeyEnv))
}
