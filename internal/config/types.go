// Package config manages the buildmec.json project configuration: the
// declarative build description that every other component consumes.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/buildmec/buildmec/internal/toolchain"
)

// ConfigName is the fixed project file name in the project root.
const ConfigName = "buildmec.json"

// Default configuration values.
const (
	DefaultSrcDir = "src/"
	DefaultBinDir = "bin/"
	DefaultObjDir = "bin/obj/"
	DefaultBinary = "main.exe"
)

// FinalOutput is the logical output name of the linked binary.
const FinalOutput = "FINAL"

// Compiler is an optional per-project compiler override.
type Compiler struct {
	Name  string   `koanf:"name" json:"name"`
	Flags []string `koanf:"flags" json:"flags"`
}

// Project is the build configuration persisted to buildmec.json.
// Sources are compiled in declared order; output paths are relative
// to BinDir.
type Project struct {
	SrcDir   string            `koanf:"src_dir" json:"src_dir"`
	BinDir   string            `koanf:"bin_dir" json:"bin_dir"`
	ObjDir   string            `koanf:"obj_dir" json:"obj_dir"`
	Sources  []string          `koanf:"sources" json:"sources"`
	Outputs  map[string]string `koanf:"outputs" json:"outputs"`
	Compiler *Compiler         `koanf:"compiler" json:"compiler,omitempty"`

	// Root is the directory the config was loaded from. Not persisted.
	Root string `koanf:"-" json:"-"`
}

// Default returns a fresh project configuration for the given toolchain,
// with a single starter source matching the toolchain's extension.
func Default(tc toolchain.Toolchain) *Project {
	return &Project{
		SrcDir:  DefaultSrcDir,
		BinDir:  DefaultBinDir,
		ObjDir:  DefaultObjDir,
		Sources: []string{"main" + tc.Extension},
		Outputs: map[string]string{FinalOutput: DefaultBinary},
	}
}

// Validate checks that the fields every build operation depends on are set.
func (p *Project) Validate() error {
	if p.SrcDir == "" {
		return fmt.Errorf("src_dir is required in %s", ConfigName)
	}
	if p.BinDir == "" {
		return fmt.Errorf("bin_dir is required in %s", ConfigName)
	}
	if _, ok := p.Outputs[FinalOutput]; !ok {
		return fmt.Errorf("outputs.%s is required in %s", FinalOutput, ConfigName)
	}
	return nil
}

// SourcePath returns the on-disk path of a declared source file.
func (p *Project) SourcePath(name string) string {
	return filepath.Join(p.Root, p.SrcDir, name)
}

// ObjectPath returns the object file path derived from a source name:
// the source basename with a .o extension, placed in ObjDir.
func (p *Project) ObjectPath(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(p.Root, p.ObjDir, base+".o")
}

// BinaryPath returns the path of the final linked binary.
func (p *Project) BinaryPath() (string, error) {
	out, ok := p.Outputs[FinalOutput]
	if !ok {
		return "", fmt.Errorf("outputs.%s is not declared in %s", FinalOutput, ConfigName)
	}
	return filepath.Join(p.Root, p.BinDir, out), nil
}
