package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/buildmec/buildmec/internal/toolchain"
)

// ConfirmReset prompts before restoring an existing configuration to
// defaults. Only an exact case-insensitive "yes" proceeds; any other
// answer leaves the file untouched and returns ok=false, which is not
// an error.
func ConfirmReset(in io.Reader, out io.Writer, dir string, tc toolchain.Toolchain) (*Project, bool, error) {
	fmt.Fprintf(out, "Restore %s to defaults? (Type 'yes' to continue) ", ConfigName)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(line), "yes") {
		return nil, false, nil
	}

	p, err := WriteDefault(dir, tc)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}
