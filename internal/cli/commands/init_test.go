package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildmec/buildmec/internal/config"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return tmpDir
}

func execInit(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewInitCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInitEmptyDirectory(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantSource string
	}{
		{name: "default cpp toolchain", args: []string{}, wantSource: "main.cpp"},
		{name: "explicit cpp", args: []string{"cpp"}, wantSource: "main.cpp"},
		{name: "c toolchain", args: []string{"c"}, wantSource: "main.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := chdirTemp(t)

			_, err := execInit(t, "", tt.args...)
			require.NoError(t, err)

			for _, f := range []string{config.ConfigName, "src", "bin", filepath.Join("src", tt.wantSource)} {
				_, statErr := os.Stat(filepath.Join(tmpDir, f))
				assert.NoError(t, statErr, "expected %q to exist", f)
			}

			var cfg struct {
				Sources []string `json:"sources"`
			}
			raw, err := os.ReadFile(filepath.Join(tmpDir, config.ConfigName))
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &cfg))
			assert.Equal(t, []string{tt.wantSource}, cfg.Sources)
		})
	}
}

func TestInitCStarterUsesPrintf(t *testing.T) {
	tmpDir := chdirTemp(t)

	_, err := execInit(t, "", "c")
	require.NoError(t, err)

	starter, err := os.ReadFile(filepath.Join(tmpDir, "src", "main.c"))
	require.NoError(t, err)
	assert.Contains(t, string(starter), "int main")
	assert.Contains(t, string(starter), "printf")
}

func TestInitUnknownToolchain(t *testing.T) {
	chdirTemp(t)

	_, err := execInit(t, "", "fortran")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown toolchain")
}

func TestInitExistingConfigDeclined(t *testing.T) {
	tmpDir := chdirTemp(t)
	existing := []byte(`{"src_dir": "src/", "bin_dir": "bin/", "sources": ["custom.cpp"], "outputs": {"FINAL": "custom"}}`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), existing, 0o644))

	out, err := execInit(t, "no\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Restore buildmec.json to defaults?")

	after, err := os.ReadFile(filepath.Join(tmpDir, config.ConfigName))
	require.NoError(t, err)
	assert.Equal(t, existing, after, "declined reset must not modify the config")

	// The project skeleton is still ensured.
	_, statErr := os.Stat(filepath.Join(tmpDir, "src"))
	assert.NoError(t, statErr)
}

func TestInitExistingConfigConfirmed(t *testing.T) {
	tmpDir := chdirTemp(t)
	existing := []byte(`{"src_dir": "elsewhere/", "bin_dir": "bin/", "sources": ["a.cpp"], "outputs": {"FINAL": "a"}}`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), existing, 0o644))

	_, err := execInit(t, "yes\n")
	require.NoError(t, err)

	after, err := os.ReadFile(filepath.Join(tmpDir, config.ConfigName))
	require.NoError(t, err)
	assert.Contains(t, string(after), `"src_dir": "src/"`)
}

func TestInitYesFlagSkipsPrompt(t *testing.T) {
	tmpDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName),
		[]byte(`{"src_dir": "x/", "bin_dir": "bin/", "outputs": {"FINAL": "a"}}`), 0o644))

	out, err := execInit(t, "", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "Restore")

	after, err := os.ReadFile(filepath.Join(tmpDir, config.ConfigName))
	require.NoError(t, err)
	assert.Contains(t, string(after), `"src_dir": "src/"`)
}

func TestInitNeverOverwritesUserSource(t *testing.T) {
	tmpDir := chdirTemp(t)
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o750))
	user := []byte("// my own code\nint main() { return 42; }\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.cpp"), user, 0o644))

	_, err := execInit(t, "")
	require.NoError(t, err)

	after, err := os.ReadFile(filepath.Join(tmpDir, "src", "main.cpp"))
	require.NoError(t, err)
	assert.Equal(t, user, after, "existing source must never be overwritten")
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [toolchain]", cmd.Use)
	assert.Contains(t, cmd.Aliases, "i")
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("yes"), "--yes flag should exist")
}
