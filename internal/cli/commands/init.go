package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildmec/buildmec/internal/config"
	"github.com/buildmec/buildmec/internal/toolchain"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "init [toolchain]",
		Aliases: []string{"i"},
		Short:   "Create the buildmec.json config and project skeleton",
		Long: `Initialize a BuildMeC project in the current directory.

This creates:
  - buildmec.json with the default build configuration
  - src/ with a starter hello-world source for the chosen toolchain
  - bin/ (and bin/obj/) for build outputs

The toolchain argument selects the language: "c" (gcc) or "cpp" (g++,
the default). When buildmec.json already exists you are asked to confirm
before it is restored to defaults; existing source files are never touched.`,
		Example: `  # Initialize a C++ project
  buildmec init

  # Initialize a C project
  buildmec init c

  # Restore the config to defaults without prompting
  buildmec init --yes`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: toolchain.Kinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := toolchain.Default()
			if len(args) > 0 {
				var ok bool
				if tc, ok = toolchain.Lookup(args[0]); !ok {
					return fmt.Errorf("unknown toolchain %q (available: %s)",
						args[0], strings.Join(toolchain.Kinds(), ", "))
				}
			}
			return runInit(cmd, tc, yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Overwrite an existing config without prompting")

	return cmd
}

func runInit(cmd *cobra.Command, tc toolchain.Toolchain, yes bool) error {
	cmdCtx := NewCommandContextWithoutProject(cmd)
	r := cmdCtx.Renderer
	dir := projectDir(cmd)

	var proj *config.Project
	cfgPath := filepath.Join(dir, config.ConfigName)
	if _, err := os.Stat(cfgPath); err == nil {
		if yes {
			if proj, err = config.WriteDefault(dir, tc); err != nil {
				return err
			}
			r.StatusLine(config.ConfigName, "success", "restored to defaults")
		} else {
			var reset bool
			proj, reset, err = config.ConfirmReset(cmd.InOrStdin(), cmd.OutOrStdout(), dir, tc)
			if err != nil {
				return err
			}
			if !reset {
				// Declined: keep the existing config but still make sure
				// the project skeleton is in place.
				if proj, err = config.Load(dir, nil); err != nil {
					return err
				}
				if err = proj.EnsureDirs(); err != nil {
					return err
				}
			} else {
				r.StatusLine(config.ConfigName, "success", "restored to defaults")
			}
		}
	} else {
		if proj, err = config.WriteDefault(dir, tc); err != nil {
			return err
		}
		r.StatusLine(config.ConfigName, "success", "")
	}

	starter, err := writeStarterSource(proj, tc)
	if err != nil {
		return err
	}
	for _, d := range []string{proj.SrcDir, proj.BinDir, proj.ObjDir} {
		if d != "" {
			r.StatusLine(filepath.Clean(d)+string(filepath.Separator), "success", "")
		}
	}
	if starter != "" {
		r.StatusLine(filepath.Join(filepath.Clean(proj.SrcDir), starter), "success", "starter source")
	}

	r.Println("")
	r.Success("BuildMeC project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit " + filepath.Join(filepath.Clean(proj.SrcDir), "main"+tc.Extension))
	r.Println("  2. Run 'buildmec compile' to build the project")
	r.Println("  3. Run 'buildmec run' to execute the binary")

	cmdCtx.Logger.Debug("project initialized", "dir", dir, "toolchain", tc.Kind)
	return nil
}
