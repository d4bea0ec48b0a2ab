// Package output renders command results as styled text, markdown, or
// JSON, adapting automatically to whether stdout is a terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode selects how command output is rendered.
type Mode string

const (
	// ModeAuto picks text on a TTY and markdown otherwise.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting TTY state from the output
// writer.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Used by tests to force either styled or plain output.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = newStyles(r.EffectiveMode() == ModeText && isTTY)
	return r
}

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the style set matching the renderer's mode.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the underlying error writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to the output stream.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, s string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", strings.Repeat("#", level), s)
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	_, _ = fmt.Fprintln(r.out, style.Render(s))
}

// Success writes a success line to the output stream.
func (r *Renderer) Success(s string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "**%s**\n", s)
		return
	}
	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render("✓ "+s))
}

// Warning writes a warning line to the error stream.
func (r *Renderer) Warning(s string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning: "+s))
}

// Error writes an error line to the error stream.
func (r *Renderer) Error(s string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("Error: "+s))
}

// StatusLine writes an indented item with a status marker.
// Status is one of "success", "warn", "error"; anything else renders a
// neutral marker.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success":
		marker = r.styles.Success.Render("✓")
	case "warn":
		marker = r.styles.Warning.Render("!")
	case "error":
		marker = r.styles.Error.Render("✗")
	default:
		marker = "-"
	}
	if detail != "" {
		_, _ = fmt.Fprintf(r.out, "  %s %s  %s\n", marker, name, r.styles.Muted.Render(detail))
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", marker, name)
}

// JSON writes v as indented JSON to the output stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
