package main

import (
	"fmt"

	"github.com/danmuck/neobuild/internal/logging"
	"github.com/danmuck/neobuild/internal/observability"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	format     string
	logger     zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "neoctl",
		Short:         "Self-hosting build orchestrator",
		Long:          "Render and run shell commands, parse build config records and drive the self-rebuild check.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = observability.InitLogger("neoctl")
			if opts.logLevel != "" {
				lvl, ok := logging.ParseLevel(opts.logLevel)
				if !ok {
					return fmt.Errorf("unknown log level %q", opts.logLevel)
				}
				opts.logger = opts.logger.Level(lvl)
			}
			switch opts.format {
			case formatText, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", opts.format)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "neobuild.toml", "project config path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (trace|debug|info|warn|error|off)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "o", formatText, "output format (text|json|yaml)")

	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newRebuildCmd(opts))
	root.AddCommand(newConfCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}
