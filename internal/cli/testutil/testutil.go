// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/buildmec/buildmec/internal/cli/output"
)

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer with the given mode and TTY state,
// capturing output in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a test renderer in text mode without a TTY,
// so output is plain and assertable.
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, false)
}

// NewTestRendererJSON creates a test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the captured stdout output.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the captured stderr output.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
