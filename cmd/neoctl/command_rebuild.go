package main

import (
	"fmt"
	"os"

	"github.com/danmuck/neobuild/internal/config"
	"github.com/danmuck/neobuild/pkg/buildfs"
	"github.com/danmuck/neobuild/pkg/rebuild"
	"github.com/spf13/cobra"
)

// loadProject reads the project file, falling back to defaults when it is absent.
func loadProject(path string) (config.Project, error) {
	if _, err := os.Stat(path); buildfs.IsNotExist(err) {
		return config.DefaultProject(), nil
	}
	return config.Load(path)
}

func newRebuildCmd(opts *rootOptions) *cobra.Command {
	var (
		source   string
		strategy string
		check    bool
	)
	cmd := &cobra.Command{
		Use:   "rebuild [flags] [-- <arg>...]",
		Short: "Rebuild a build program when its source is newer than its binary",
		Long: "Compares the source and binary modification times. A stale binary is rebuilt with the " +
			"helper and relaunched with the trailing args plus the no-rebuild sentinel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(opts.configPath)
			if err != nil {
				return err
			}
			if source != "" {
				project.Source = source
			}
			cfg := project.SupervisorConfig()
			cfg.Logger = &opts.logger
			if strategy != "" {
				cfg.Strategy = rebuild.Strategy(strategy)
			}
			sup, err := rebuild.New(cfg)
			if err != nil {
				return err
			}

			if check {
				state, snap, err := sup.Check(project.Source)
				if err != nil {
					return err
				}
				if opts.format != formatText {
					return printStructured(cmd.OutOrStdout(), opts.format, map[string]any{
						"state":    state.String(),
						"snapshot": snap,
					})
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", snap.Binary, state)
				return err
			}

			binary, err := rebuild.BinaryPath(project.Source)
			if err != nil {
				return err
			}
			state, err := sup.Run(project.Source, append([]string{binary}, args...))
			if err != nil && !rebuild.Recoverable(err) {
				return err
			}
			// a recoverable failure leaves the old binary in place
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", binary, state)
			return err
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "build program source (overrides the config file)")
	cmd.Flags().StringVar(&strategy, "relaunch", "", "relaunch strategy (exec|spawn)")
	cmd.Flags().BoolVar(&check, "check", false, "only report whether the binary is stale")
	return cmd
}
