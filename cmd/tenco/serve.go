package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zulandar/tenco/internal/config"
	"github.com/zulandar/tenco/internal/rollcall"
	"github.com/zulandar/tenco/internal/scheduler"
	"github.com/zulandar/tenco/internal/server"
	"github.com/zulandar/tenco/internal/slack"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the roll-call HTTP server",
		Long:  "Serves the slash command, modal submission, and events API endpoints, plus any scheduled roll calls from the config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "tenco.yaml", "path to Tenco config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Server errors must also wind down the scheduler, not just signals.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc, err := rollcall.NewService(ctx, slack.New(cfg.BotToken))
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	if len(cfg.Schedules) > 0 {
		sched, err := scheduler.New(svc, cfg.Schedules)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
	}

	serveErr := server.Start(ctx, server.StartOpts{
		Service:           svc,
		VerificationToken: cfg.VerificationToken,
		Port:              cfg.Port,
		Out:               cmd.OutOrStdout(),
	})

	// Let any in-flight scheduled roll call finish before exiting.
	cancel()
	wg.Wait()
	return serveErr
}
