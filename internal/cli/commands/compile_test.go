package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildmec/buildmec/internal/config"
)

// installStubGXX puts a fake g++ on PATH that creates the file named by -o,
// so compile tests do not depend on a real toolchain.
func installStubGXX(t *testing.T) {
	t.Helper()

	script := `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
if [ -n "$out" ]; then : > "$out"; fi
exit 0
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "g++"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func execCompile(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCompileCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCompileNotInitialized(t *testing.T) {
	chdirTemp(t)

	_, errOut, err := execCompile(t)
	require.NoError(t, err, "missing config is reported, not a failure")
	assert.Contains(t, errOut, "not initialized")
}

func TestCompileWithMissingSource(t *testing.T) {
	// One existing and one missing source: one object, one warning, and a
	// linked executable built from the existing object only.
	tmpDir := chdirTemp(t)
	installStubGXX(t)

	cfg := `{
    "src_dir": "src/",
    "bin_dir": "bin/",
    "obj_dir": "bin/obj/",
    "sources": ["main.cpp", "missing.cpp"],
    "outputs": {"FINAL": "main.exe"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), []byte(cfg), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.cpp"), []byte("int main() {}\n"), 0o644))

	out, errOut, err := execCompile(t)
	require.NoError(t, err)

	assert.Contains(t, errOut, "missing.cpp")
	assert.Contains(t, errOut, "does not exist")
	assert.Contains(t, out, "Built")

	_, statErr := os.Stat(filepath.Join(tmpDir, "bin", "obj", "main.o"))
	assert.NoError(t, statErr, "object for the existing source should exist")
	_, statErr = os.Stat(filepath.Join(tmpDir, "bin", "obj", "missing.o"))
	assert.True(t, os.IsNotExist(statErr), "no object for the missing source")

	info, statErr := os.Stat(filepath.Join(tmpDir, "bin", "main.exe"))
	require.NoError(t, statErr)
	assert.NotZero(t, info.Mode()&0o111, "final binary should be executable")
}

func TestCompileAllSourcesMissing(t *testing.T) {
	tmpDir := chdirTemp(t)
	installStubGXX(t)

	cfg := `{
    "src_dir": "src/",
    "bin_dir": "bin/",
    "sources": ["gone.cpp"],
    "outputs": {"FINAL": "main.exe"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), []byte(cfg), 0o644))

	_, _, err := execCompile(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compilable sources")
}

func TestCompileUnknownCompilerOverrideWarns(t *testing.T) {
	tmpDir := chdirTemp(t)
	installStubGXX(t)

	cfg := `{
    "src_dir": "src/",
    "bin_dir": "bin/",
    "sources": ["main.cpp"],
    "outputs": {"FINAL": "main.exe"},
    "compiler": {"name": "clang-deluxe", "flags": ["-O3"]}
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), []byte(cfg), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.cpp"), []byte("int main() {}\n"), 0o644))

	_, errOut, err := execCompile(t)
	require.NoError(t, err, "unknown override falls back to the default toolchain")
	assert.Contains(t, errOut, "clang-deluxe")
	assert.Contains(t, errOut, "falling back")
}

func TestCompileRunForwardsArgs(t *testing.T) {
	tmpDir := chdirTemp(t)

	// Stub g++ that "links" a shell script echoing its arguments, so
	// --run has something real to execute.
	script := `#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
if [ -n "$out" ]; then printf '#!/bin/sh\nfor a in "$@"; do printf "%%s\\n" "$a"; done\n' > "$out"; fi
exit 0
`
	stubDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(stubDir, "g++"), []byte(script), 0o755))
	t.Setenv("PATH", stubDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	cfg := `{
    "src_dir": "src/",
    "bin_dir": "bin/",
    "sources": ["main.cpp"],
    "outputs": {"FINAL": "main.exe"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), []byte(cfg), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.cpp"), []byte("int main() {}\n"), 0o644))

	out, _, err := execCompile(t, "--run", "--", "a", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "a\nb\n")
}

func TestCompileCommandMetadata(t *testing.T) {
	cmd := NewCompileCommand()

	assert.Contains(t, cmd.Aliases, "c")
	assert.NotNil(t, cmd.Flags().Lookup("run"))
	assert.NotNil(t, cmd.Flags().Lookup("watch"))
}
