package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/buildmec/buildmec/internal/cli/testutil"
	"github.com/buildmec/buildmec/internal/config"
	"github.com/buildmec/buildmec/internal/toolchain"
)

func TestListShowsSourceState(t *testing.T) {
	tmpDir := chdirTemp(t)

	cfg := `{
    "src_dir": "src/",
    "bin_dir": "bin/",
    "obj_dir": "bin/obj/",
    "sources": ["present.cpp", "absent.cpp"],
    "outputs": {"FINAL": "main.exe"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, config.ConfigName), []byte(cfg), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "bin", "obj"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "present.cpp"), []byte("int main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "bin", "obj", "present.o"), nil, 0o644))

	cmd := NewListCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "present.cpp")
	assert.Contains(t, s, "absent.cpp")
	assert.Contains(t, errOut.String(), "missing on disk")
}

func TestListJSONMode(t *testing.T) {
	tmpDir := chdirTemp(t)

	proj := config.Default(toolchain.Default())
	proj.Root = tmpDir
	proj.Sources = []string{"main.cpp", "util.cpp"}
	require.NoError(t, proj.EnsureDirs())
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.cpp"), []byte("int main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(proj.ObjectPath("main.cpp"), nil, 0o644))

	r := clitest.NewTestRendererJSON()
	require.NoError(t, runList(&CommandContext{Project: proj, Renderer: r.Renderer}))

	var statuses []SourceStatus
	require.NoError(t, json.Unmarshal([]byte(r.Output()), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, 1, statuses[0].Position)
	assert.Equal(t, "main.cpp", statuses[0].Source)
	assert.True(t, statuses[0].Present)
	assert.True(t, statuses[0].Built)
	assert.False(t, statuses[1].Present)
	assert.False(t, statuses[1].Built)
	clitest.AssertNoANSI(t, r.Output())
}

func TestListNotInitialized(t *testing.T) {
	chdirTemp(t)

	cmd := NewListCommand()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "not initialized")
}
