package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildmec/buildmec/internal/toolchain"
)

// WriteDefault writes a fresh default configuration for the toolchain and
// creates the declared directories. An existing file is overwritten;
// callers that need confirmation should go through ConfirmReset.
func WriteDefault(dir string, tc toolchain.Toolchain) (*Project, error) {
	p := Default(tc)
	p.Root = dir
	if err := p.Write(); err != nil {
		return nil, err
	}
	if err := p.EnsureDirs(); err != nil {
		return nil, err
	}
	return p, nil
}

// Write persists the configuration as indented JSON so it stays
// hand-editable.
func (p *Project) Write() error {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ConfigName, err)
	}
	data = append(data, '\n')

	path := filepath.Join(p.Root, ConfigName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EnsureDirs creates the source, binary, and object directories.
// Idempotent: existing directories are left alone.
func (p *Project) EnsureDirs() error {
	for _, d := range []string{p.SrcDir, p.BinDir, p.ObjDir} {
		if d == "" {
			continue
		}
		path := filepath.Join(p.Root, d)
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}
	return nil
}
