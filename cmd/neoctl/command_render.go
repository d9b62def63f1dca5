package main

import (
	"fmt"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/danmuck/neobuild/internal/tools"
	"github.com/danmuck/neobuild/pkg/command"
	"github.com/spf13/cobra"
)

type commandFlags struct {
	shell string
	line  string
	quote bool
}

func (f *commandFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shell, "shell", "bash", "shell to run through (bash|sh|dash)")
	cmd.Flags().StringVar(&f.line, "line", "", "command line split into tokens before any trailing args")
	cmd.Flags().BoolVar(&f.quote, "quote", false, "shell-quote trailing args that contain special characters")
}

// build assembles the command from --line tokens followed by positional args.
func (f *commandFlags) build(args []string) (*command.Command, error) {
	shell, ok := command.ParseShell(f.shell)
	if !ok {
		return nil, fmt.Errorf("unknown shell %q", f.shell)
	}
	var tokens []string
	if f.line != "" {
		split, err := shlex.Split(f.line, true)
		if err != nil {
			return nil, fmt.Errorf("split --line: %w", err)
		}
		tokens = append(tokens, split...)
	}
	for _, arg := range args {
		if f.quote {
			arg = tools.Quote(arg)
		}
		tokens = append(tokens, arg)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no command tokens; pass --line or args after --")
	}
	return command.From(shell, tokens...)
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	flags := &commandFlags{}
	cmd := &cobra.Command{
		Use:   "render [flags] -- <token>...",
		Short: "Print the shell line a command renders to",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.build(args)
			if err != nil {
				return err
			}
			defer c.Release()

			line, err := c.Render()
			if err != nil {
				return err
			}
			if opts.format != formatText {
				return printStructured(cmd.OutOrStdout(), opts.format, map[string]any{
					"shell":  c.Shell().String(),
					"path":   c.Shell().Path(),
					"tokens": c.Tokens(),
					"line":   line,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
