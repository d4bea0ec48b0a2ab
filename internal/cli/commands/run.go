package commands

import (
	"github.com/spf13/cobra"

	"github.com/buildmec/buildmec/internal/runner"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run [args...]",
		Aliases: []string{"r"},
		Short:   "Run the built binary, forwarding arguments",
		Long: `Execute the project's built binary as a child process.

All arguments are forwarded verbatim, in order. The binary's output and
exit code are passed through untouched.`,
		Example: `  # Run the binary
  buildmec run

  # Forward arguments to it
  buildmec run -- --verbose input.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil || cmdCtx == nil {
				return err
			}
			bin, err := cmdCtx.Project.BinaryPath()
			if err != nil {
				return err
			}
			cmdCtx.Logger.Debug("running binary", "binary", bin, "args", args)
			return runner.Run(cmd.Context(), bin, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	// Everything after the first positional belongs to the child process.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
