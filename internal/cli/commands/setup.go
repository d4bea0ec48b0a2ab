// Package commands implements the buildmec subcommands.
package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/buildmec/buildmec/internal/cli/output"
	"github.com/buildmec/buildmec/internal/config"
)

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// WithLogger stores the logger in a context for retrieval by commands.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// CommandContext bundles what most commands need to run.
type CommandContext struct {
	Project  *config.Project
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext loads the project configuration for commands that
// require an initialized project. When the project is not initialized it
// reports the condition through the renderer and returns (nil, nil): the
// operation is skipped, not failed.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	r := newRenderer(cmd)
	logger := GetLogger(cmd.Context())

	proj, err := config.Load(projectDir(cmd), rootFlags(cmd))
	if err != nil {
		if errors.Is(err, config.ErrNotInitialized) {
			r.Error("BuildMeC is not initialized. Run 'buildmec init' first.")
			return nil, nil
		}
		return nil, err
	}

	return &CommandContext{
		Project:  proj,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// NewCommandContextWithoutProject creates a CommandContext for commands
// that work without a configuration file.
func NewCommandContextWithoutProject(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Logger:   GetLogger(cmd.Context()),
		Renderer: newRenderer(cmd),
	}
}

// Helper functions shared across commands

// newRenderer builds a renderer honoring the root --output flag when the
// command is attached to the real root.
func newRenderer(cmd *cobra.Command) *output.Renderer {
	mode := output.ModeAuto
	if f := cmd.Root().PersistentFlags().Lookup("output"); f != nil {
		mode = output.Mode(f.Value.String())
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
}

// projectDir resolves the project directory from the root --project-dir
// flag, defaulting to the current directory.
func projectDir(cmd *cobra.Command) string {
	if f := cmd.Root().PersistentFlags().Lookup("project-dir"); f != nil {
		if dir := f.Value.String(); dir != "" {
			return dir
		}
	}
	return "."
}

// rootFlags exposes the root persistent flags for config overrides, or nil
// when the command runs detached (as it does in tests).
func rootFlags(cmd *cobra.Command) *pflag.FlagSet {
	if cmd.Root().PersistentFlags().Lookup("project-dir") != nil {
		return cmd.Root().PersistentFlags()
	}
	return nil
}
