package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildmec/buildmec/internal/builder"
	"github.com/buildmec/buildmec/internal/config"
	"github.com/buildmec/buildmec/internal/runner"
	"github.com/buildmec/buildmec/internal/toolchain"
	"github.com/buildmec/buildmec/internal/watcher"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var runAfter bool
	var watch bool

	cmd := &cobra.Command{
		Use:     "compile [-- args...]",
		Aliases: []string{"c"},
		Short:   "Compile declared sources and link the final binary",
		Long: `Compile every source declared in buildmec.json, in declared order,
into object files, then link them into the final binary.

Sources missing on disk are skipped with a warning. The build aborts only
when no source at all could be compiled. The linked binary is marked
executable.

With --run the binary is executed after a successful build; arguments
after -- are forwarded to it. With --watch the project is rebuilt whenever
a file in the source directory changes.`,
		Example: `  # Build the project
  buildmec compile

  # Build and immediately run, forwarding arguments
  buildmec compile --run -- --port 8080

  # Rebuild on every source change
  buildmec compile --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, runAfter, watch)
		},
	}

	cmd.Flags().BoolVar(&runAfter, "run", false, "Run the binary after a successful build")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild when source files change")
	cmd.MarkFlagsMutuallyExclusive("run", "watch")

	return cmd
}

func runCompile(cmd *cobra.Command, fwdArgs []string, runAfter, watch bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil || cmdCtx == nil {
		return err
	}
	proj := cmdCtx.Project
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	var overrideName string
	var overrideFlags []string
	if proj.Compiler != nil {
		overrideName = proj.Compiler.Name
		overrideFlags = proj.Compiler.Flags
	}
	program, flags, honored := toolchain.Resolve(overrideName, overrideFlags)
	if overrideName != "" && !honored {
		r.Warning(fmt.Sprintf("unknown compiler %q in %s, falling back to %s", overrideName, config.ConfigName, program))
	}

	// Object files land next to the binary; make sure the directories are
	// there even if the user deleted them since init.
	if err := proj.EnsureDirs(); err != nil {
		return err
	}

	b := builder.New(proj, program, flags, builder.Options{
		Out:    r.Writer(),
		ErrOut: r.ErrWriter(),
		Logger: logger,
	})

	build := func(ctx context.Context) (*builder.Result, error) {
		res, err := b.Compile(ctx)
		if err != nil {
			return nil, err
		}
		if err := b.Link(ctx, res); err != nil {
			return nil, err
		}
		r.Success(fmt.Sprintf("Built %s (%d object(s) in %s)",
			res.Binary, len(res.Objects), res.Duration.Round(time.Millisecond)))
		return res, nil
	}

	ctx := cmd.Context()
	if watch {
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err := build(ctx); err != nil {
			// Keep watching: the next save may fix the build.
			r.Error(err.Error())
		}
		srcDir := filepath.Join(proj.Root, proj.SrcDir)
		r.Println("Watching " + srcDir + " for changes (Ctrl-C to stop)")
		return watcher.Watch(ctx, srcDir, 300*time.Millisecond, logger, func() {
			if _, err := build(ctx); err != nil {
				r.Error(err.Error())
			}
		})
	}

	res, err := build(ctx)
	if err != nil {
		return err
	}

	// Run is always the last operation of an invocation.
	if runAfter {
		return runner.Run(ctx, res.Binary, fwdArgs, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	return nil
}
