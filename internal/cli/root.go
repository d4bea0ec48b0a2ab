// Package cli provides the command-line interface for BuildMeC.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/buildmec/buildmec/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "2.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var (
	projectDir string
	verbose    bool
	outputFmt  string
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buildmec",
		Short: "BuildMeC - Simple C/C++ project builder",
		Long: `BuildMeC scaffolds and drives a minimal C/C++ build.

It keeps the project description in a hand-editable buildmec.json, compiles
each declared source into an object file with gcc or g++, links them into a
single binary, and can run the result with forwarded arguments.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := slog.New(slog.DiscardHandler)
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}
			cmd.SetContext(commands.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("BuildMeC {{.Version}}\n")

	// Global persistent flags. The version flag keeps the historical -v
	// shorthand, so verbose is long-form only.
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project-dir", "C", ".", "Project directory containing buildmec.json")
	rootCmd.PersistentFlags().String("src-dir", "", "Override the source directory")
	rootCmd.PersistentFlags().String("bin-dir", "", "Override the binary output directory")
	rootCmd.PersistentFlags().String("obj-dir", "", "Override the object file directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewCompileCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewDoctorCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
// A child-process exit status from the run command is propagated as-is.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
