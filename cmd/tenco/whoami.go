package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zulandar/tenco/internal/config"
	"github.com/zulandar/tenco/internal/slack"
)

func newWhoamiCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the bot user behind the configured token",
		Long:  "Calls auth.test with the configured bot token. Useful to verify credentials before wiring up the Slack app.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "tenco.yaml", "path to Tenco config file")
	return cmd
}

func runWhoami(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	id, err := slack.New(cfg.BotToken).OwnID(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "bot user: %s\n", id)
	return nil
}
