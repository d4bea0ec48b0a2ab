package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ErrNotInitialized reports that no buildmec.json exists in the project
// directory.
var ErrNotInitialized = errors.New("project is not initialized (no " + ConfigName + " found)")

// Load reads the project configuration from dir.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Unknown keys in the file are ignored; a missing file yields
// ErrNotInitialized.
func Load(dir string, flags *pflag.FlagSet) (*Project, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"src_dir": DefaultSrcDir,
		"bin_dir": DefaultBinDir,
		"obj_dir": DefaultObjDir,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path := filepath.Join(dir, ConfigName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	// 3. Environment variables (BUILDMEC_ prefix)
	// Transform: BUILDMEC_SRC_DIR -> src_dir
	if err := k.Load(env.Provider("BUILDMEC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BUILDMEC_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var p Project
	if err := k.Unmarshal("", &p); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", ConfigName, err)
	}
	p.Root = dir

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
