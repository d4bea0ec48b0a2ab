package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/buildmec/buildmec/internal/cli/output"
	"github.com/buildmec/buildmec/internal/config"
	"github.com/buildmec/buildmec/internal/toolchain"
)

// HealthCheck is a single doctor finding.
type HealthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass", "warn", "error"
	Detail string `json:"detail,omitempty"`
}

// DoctorOutput is the JSON shape of the doctor report.
type DoctorOutput struct {
	Checks   []HealthCheck `json:"checks"`
	Problems int           `json:"problems"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project and toolchain environment",
		Long: `Analyze the project for problems that would break a build:

- buildmec.json present and parseable
- compiler toolchains available on PATH
- source directory and declared sources present

The command exits nonzero when any check reports an error.`,
		Example: `  # Run the health check
  buildmec doctor

  # Machine-readable report
  buildmec doctor -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutProject(cmd)
	r := cmdCtx.Renderer
	dir := projectDir(cmd)

	var checks []HealthCheck

	proj, err := config.Load(dir, rootFlags(cmd))
	switch {
	case err == nil:
		checks = append(checks, HealthCheck{Name: config.ConfigName, Status: "pass"})
	case errors.Is(err, config.ErrNotInitialized):
		checks = append(checks, HealthCheck{Name: config.ConfigName, Status: "error", Detail: "not initialized, run 'buildmec init'"})
	default:
		checks = append(checks, HealthCheck{Name: config.ConfigName, Status: "error", Detail: err.Error()})
	}

	// Every known toolchain is probed; only the one the project resolves
	// to is a hard requirement.
	resolved := toolchain.Default().Program
	if proj != nil && proj.Compiler != nil {
		resolved, _, _ = toolchain.Resolve(proj.Compiler.Name, nil)
	}
	for _, tc := range toolchain.All() {
		name := fmt.Sprintf("%s (%s)", tc.Program, tc.Kind)
		if _, lookErr := exec.LookPath(tc.Program); lookErr != nil {
			status := "warn"
			if tc.Program == resolved {
				status = "error"
			}
			checks = append(checks, HealthCheck{Name: name, Status: status, Detail: "not found on PATH"})
		} else {
			checks = append(checks, HealthCheck{Name: name, Status: "pass"})
		}
	}

	if proj != nil {
		srcDir := filepath.Join(proj.Root, proj.SrcDir)
		if info, statErr := os.Stat(srcDir); statErr != nil || !info.IsDir() {
			checks = append(checks, HealthCheck{Name: proj.SrcDir, Status: "error", Detail: "source directory missing"})
		} else {
			checks = append(checks, HealthCheck{Name: proj.SrcDir, Status: "pass"})
		}

		missing := 0
		for _, src := range proj.Sources {
			if _, statErr := os.Stat(proj.SourcePath(src)); statErr != nil {
				checks = append(checks, HealthCheck{Name: src, Status: "warn", Detail: "declared but missing on disk"})
				missing++
			}
		}
		if missing == len(proj.Sources) && len(proj.Sources) > 0 {
			checks = append(checks, HealthCheck{Name: "sources", Status: "error", Detail: "no declared source exists, a build would fail"})
		}
	}

	problems := 0
	for _, c := range checks {
		if c.Status == "error" {
			problems++
		}
	}
	report := &DoctorOutput{Checks: checks, Problems: problems}

	if r.EffectiveMode() == output.ModeJSON {
		if jsonErr := r.JSON(report); jsonErr != nil {
			return jsonErr
		}
	} else {
		r.Header(2, "Project health")
		for _, c := range checks {
			status := "success"
			switch c.Status {
			case "warn":
				status = "warn"
			case "error":
				status = "error"
			}
			r.StatusLine(c.Name, status, c.Detail)
		}
		r.Println("")
		if problems == 0 {
			r.Success("No problems found")
		}
	}

	if problems > 0 {
		return fmt.Errorf("%s found", pluralize(problems, "problem", "problems"))
	}
	return nil
}

// pluralize formats n with the singular or plural noun.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
