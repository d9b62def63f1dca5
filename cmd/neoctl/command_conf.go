package main

import (
	"github.com/danmuck/neobuild/pkg/buildfs"
	"github.com/danmuck/neobuild/pkg/neoconf"
	"github.com/spf13/cobra"
)

func newConfCmd(opts *rootOptions) *cobra.Command {
	var fromArgs bool
	cmd := &cobra.Command{
		Use:   "conf <file> | conf --args -- KEY=VALUE...",
		Short: "Parse semicolon separated KEY=VALUE build settings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := neoconf.NewParser(neoconf.WithLogger(opts.logger))
			var (
				res neoconf.Result
				err error
			)
			if fromArgs {
				// ParseArgs expects the program name first
				res, err = parser.ParseArgs(append([]string{cmd.Root().Name()}, args...))
			} else {
				res, err = parser.ParseFile(buildfs.OS(), args[0])
			}
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), opts.format, res)
		},
	}
	cmd.Flags().BoolVar(&fromArgs, "args", false, "parse KEY=VALUE arguments instead of a file")
	return cmd
}
