// Package builder drives the external compiler toolchain: one object file
// per declared source, in declared order, then a single link step.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/buildmec/buildmec/internal/config"
)

// ErrNoCompilableSources reports that no declared source could be compiled,
// which makes linking impossible.
var ErrNoCompilableSources = errors.New("no compilable sources found")

// Builder invokes the compiler sequentially. Each invocation is a blocking
// child-process call; diagnostics are streamed through unmodified.
type Builder struct {
	project *config.Project
	program string
	flags   []string
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
}

// Options configures a Builder. Out and ErrOut receive the compiler's
// stdout and stderr; nil writers default to io.Discard. A nil Logger
// discards log records.
type Options struct {
	Out    io.Writer
	ErrOut io.Writer
	Logger *slog.Logger
}

// New creates a Builder for the project using the given compiler program
// and flags.
func New(p *config.Project, program string, flags []string, opts Options) *Builder {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	errOut := opts.ErrOut
	if errOut == nil {
		errOut = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		project: p,
		program: program,
		flags:   flags,
		out:     out,
		errOut:  errOut,
		logger:  logger,
	}
}

// Compile produces one object file per declared source, preserving declared
// order. A missing source is skipped with a warning; a failing invocation
// surfaces the compiler's diagnostics and continues with the remaining
// sources. An empty object set is fatal and returns ErrNoCompilableSources.
func (b *Builder) Compile(ctx context.Context) (*Result, error) {
	res := &Result{ID: uuid.NewString()}
	start := time.Now()

	for _, src := range b.project.Sources {
		srcPath := b.project.SourcePath(src)
		if _, err := os.Stat(srcPath); os.IsNotExist(err) {
			fmt.Fprintf(b.errOut, "Warning: '%s' does not exist. Not adding to compilation.\n", srcPath)
			b.logger.Warn("source missing, skipping", "source", srcPath)
			res.Skipped = append(res.Skipped, src)
			continue
		}

		objPath := b.project.ObjectPath(src)
		args := append([]string{srcPath}, b.flags...)
		args = append(args, "-c", "-o", objPath)

		b.logger.Debug("compiling", "source", src, "object", objPath, "program", b.program)
		cmd := exec.CommandContext(ctx, b.program, args...)
		cmd.Stdout = b.out
		cmd.Stderr = b.errOut
		if err := cmd.Run(); err != nil {
			b.logger.Warn("compiler reported failure", "source", src, "err", err)
			// The object may still have been produced despite warnings
			// escalated to a nonzero exit; only count it if it exists.
			if _, statErr := os.Stat(objPath); statErr != nil {
				continue
			}
		}
		res.Objects = append(res.Objects, objPath)
	}

	res.Duration = time.Since(start)
	if len(res.Objects) == 0 {
		return res, ErrNoCompilableSources
	}
	return res, nil
}

// Link combines the result's object files into the final binary and marks
// it executable. A link failure that produced no binary is returned as an
// error; the compiler's diagnostics have already been streamed through.
func (b *Builder) Link(ctx context.Context, res *Result) error {
	if len(res.Objects) == 0 {
		return ErrNoCompilableSources
	}
	binPath, err := b.project.BinaryPath()
	if err != nil {
		return err
	}

	args := append([]string{}, res.Objects...)
	args = append(args, b.flags...)
	args = append(args, "-o", binPath)

	b.logger.Debug("linking", "objects", len(res.Objects), "binary", binPath, "program", b.program)
	cmd := exec.CommandContext(ctx, b.program, args...)
	cmd.Stdout = b.out
	cmd.Stderr = b.errOut
	runErr := cmd.Run()

	info, statErr := os.Stat(binPath)
	if statErr != nil {
		if runErr != nil {
			return fmt.Errorf("linking failed: %w", runErr)
		}
		return fmt.Errorf("linker did not produce %s", binPath)
	}

	if err := os.Chmod(binPath, info.Mode()|0o111); err != nil {
		return fmt.Errorf("failed to mark %s executable: %w", binPath, err)
	}
	res.Binary = binPath
	return nil
}
