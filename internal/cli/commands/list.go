package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/buildmec/buildmec/internal/cli/output"
)

// SourceStatus describes one declared source for the list command.
type SourceStatus struct {
	Position int    `json:"position"`
	Source   string `json:"source"`
	Present  bool   `json:"present"`
	Object   string `json:"object"`
	Built    bool   `json:"built"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List declared sources and their build state",
		Long: `Show every source declared in buildmec.json, in build order, along with
whether it exists on disk and whether its object file has been produced.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil || cmdCtx == nil {
				return err
			}
			return runList(cmdCtx)
		},
	}
}

func runList(cmdCtx *CommandContext) error {
	proj := cmdCtx.Project
	r := cmdCtx.Renderer

	statuses := make([]SourceStatus, 0, len(proj.Sources))
	for i, src := range proj.Sources {
		_, srcErr := os.Stat(proj.SourcePath(src))
		obj := proj.ObjectPath(src)
		_, objErr := os.Stat(obj)
		statuses = append(statuses, SourceStatus{
			Position: i + 1,
			Source:   src,
			Present:  srcErr == nil,
			Object:   obj,
			Built:    objErr == nil,
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(statuses)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Source", "Present", "Object built"})
	for _, s := range statuses {
		t.AppendRow(table.Row{s.Position, s.Source, yesNo(s.Present), yesNo(s.Built)})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}

	missing := 0
	for _, s := range statuses {
		if !s.Present {
			missing++
		}
	}
	if missing > 0 {
		r.Warning(pluralize(missing, "declared source is missing on disk", "declared sources are missing on disk"))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
