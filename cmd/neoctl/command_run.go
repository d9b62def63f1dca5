package main

import (
	"context"
	"fmt"
	"time"

	"github.com/danmuck/neobuild/internal/history"
	"github.com/danmuck/neobuild/internal/server"
	"github.com/danmuck/neobuild/internal/tools"
	"github.com/danmuck/neobuild/pkg/process"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	flags := &commandFlags{}
	var (
		diagnostics bool
		statusAddr  string
		statusToken string
		linger      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run [flags] -- <token>...",
		Short: "Run a command through its shell and report how it terminated",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build(args)
			if err != nil {
				return err
			}
			defer c.Release()
			if err := tools.ShellAvailable(c.Shell()); err != nil {
				return err
			}

			recorder := history.NewRecorder(0)
			launcher := process.NewLauncher(process.WithLogger(opts.logger), process.WithObserver(recorder))

			if statusAddr != "" {
				status := server.New(server.Config{
					Addr:     statusAddr,
					Token:    statusToken,
					Recorder: recorder,
					Logger:   &opts.logger,
				})
				if _, err := status.Start(); err != nil {
					return fmt.Errorf("start status server: %w", err)
				}
				defer func() {
					time.Sleep(linger)
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = status.Shutdown(ctx)
				}()
			}

			report, err := launcher.Sync(c, diagnostics)
			if err != nil {
				return err
			}
			if err := printReport(cmd.OutOrStdout(), opts.format, report); err != nil {
				return err
			}
			if !report.Success() {
				return fmt.Errorf("command failed: %s", report.Describe())
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&diagnostics, "diag", false, "log a termination diagnostic line")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "serve /health, /metrics and /runs on this address while running")
	cmd.Flags().StringVar(&statusToken, "status-token", "", "bearer token required on /runs")
	cmd.Flags().DurationVar(&linger, "linger", 0, "keep the status server up this long after the command ends")
	return cmd
}
