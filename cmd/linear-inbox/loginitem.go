package main

import (
	"github.com/spf13/cobra"
)

var loginItemCmd = &cobra.Command{
	Use:   "login-item",
	Short: "Manage launching linear-inbox at login",
}

var loginItemEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Launch at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginItemSetRun(true)
	},
}

var loginItemDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop launching at login",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginItemSetRun(false)
	},
}

var loginItemStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether launch at login is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loginItemStatusRun()
	},
}

func init() {
	loginItemCmd.AddCommand(loginItemEnableCmd)
	loginItemCmd.AddCommand(loginItemDisableCmd)
	loginItemCmd.AddCommand(loginItemStatusCmd)
	rootCmd.AddCommand(loginItemCmd)
}

func loginItemSetRun(enabled bool) error {
	if err := loginItem.SetEnabled(enabled); err != nil {
		return err
	}
	if enabled {
		ui.Success("Launch at login enabled")
	} else {
		ui.Success("Launch at login disabled")
	}
	return nil
}

func loginItemStatusRun() error {
	path, err := loginItem.Path()
	if err != nil {
		return err
	}
	if loginItem.Enabled() {
		ui.Success("Launch at login enabled (%s)", path)
	} else {
		ui.Info("Launch at login disabled")
	}
	return nil
}
