package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/roeyazroel/linear-inbox/internal/config"
	"github.com/roeyazroel/linear-inbox/internal/credential"
	"github.com/spf13/cobra"
)

var keyImportForce bool

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored Linear API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set [KEY|-]",
	Short: "Store an API key",
	Long: `Store a Linear personal API key, replacing any stored key.

With no argument or "-", the key is read from the first line of stdin.
Get your API key from Linear Settings → Account → API.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		return keySetRun(arg, cmd.InOrStdin())
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keyClearRun()
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keyStatusRun()
	},
}

var keyImportEnvCmd = &cobra.Command{
	Use:   "import-env",
	Short: "Store the key from " + config.LinearAPIKeyEnv,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keyImportEnvRun(keyImportForce)
	},
}

func init() {
	keyImportEnvCmd.Flags().BoolVar(&keyImportForce, "force", false, "Replace a stored key")
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
	keyCmd.AddCommand(keyImportEnvCmd)
	rootCmd.AddCommand(keyCmd)
}

func keySetRun(arg string, stdin io.Reader) error {
	key := arg
	if key == "" || key == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read API key: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}

	if err := store.Save(key); err != nil {
		return fmt.Errorf("save API key: %w", err)
	}
	ui.Success("API key saved")
	return nil
}

func keyClearRun() error {
	if err := store.Delete(); err != nil {
		return fmt.Errorf("clear API key: %w", err)
	}
	ui.Success("API key cleared")
	return nil
}

func keyStatusRun() error {
	if _, err := store.Get(); err != nil {
		if !errors.Is(err, credential.ErrItemNotFound) {
			return fmt.Errorf("read API key: %w", err)
		}
		ui.Warning("No API key stored (%s backend)", cfg.CredentialBackend)
	} else {
		ui.Success("API key stored (%s backend)", cfg.CredentialBackend)
	}
	if config.EnvAPIKey() != "" {
		ui.Info("%s is set; run 'linear-inbox key import-env' to store it", config.LinearAPIKeyEnv)
	}
	return nil
}

func keyImportEnvRun(force bool) error {
	key := config.EnvAPIKey()
	if key == "" {
		return fmt.Errorf("%s is not set", config.LinearAPIKeyEnv)
	}
	if store.Exists() && !force {
		ui.Warning("An API key is already stored; use --force to replace it")
		return nil
	}
	if err := store.Save(key); err != nil {
		return fmt.Errorf("save API key: %w", err)
	}
	ui.Success("API key imported from %s", config.LinearAPIKeyEnv)
	if os.Getenv(config.LinearAPIKeyEnv) != "" {
		ui.VerboseLog("You can now unset %s", config.LinearAPIKeyEnv)
	}
	return nil
}
