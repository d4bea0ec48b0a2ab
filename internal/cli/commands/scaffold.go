package commands

import (
	"embed"
	"fmt"
	"os"
	"path"

	"github.com/buildmec/buildmec/internal/config"
	"github.com/buildmec/buildmec/internal/toolchain"
)

//go:embed all:templates
var templateFS embed.FS

// writeStarterSource writes the toolchain's hello-world program into the
// project's source directory. An existing file of the default name is
// never overwritten; the empty return signals nothing was written.
func writeStarterSource(proj *config.Project, tc toolchain.Toolchain) (string, error) {
	name := "main" + tc.Extension
	dst := proj.SourcePath(name)
	if _, err := os.Stat(dst); err == nil {
		return "", nil
	}

	content, err := templateFS.ReadFile(path.Join("templates", string(tc.Kind), name))
	if err != nil {
		return "", fmt.Errorf("failed to read starter template for %s: %w", tc.Kind, err)
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write starter source %s: %w", dst, err)
	}
	return name, nil
}
