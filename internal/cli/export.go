package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shwetalj/jobcanvas/pkg/render"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// validExportFormats is the set of supported export formats.
var validExportFormats = map[string]bool{"dot": true, "svg": true, "png": true}

// exportCommand creates the export command for rendering workflow diagrams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export [workflow.json]",
		Short: "Render a workflow as DOT, SVG, or PNG",
		Long: `Render a workflow as a node-link diagram.

The export command converts a workflow file to Graphviz DOT and optionally
rasterizes it. Node positions from the canvas are not used; Graphviz computes
its own layered layout for the export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validExportFormats[format] {
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", format)
			}
			return c.runExport(args[0], output, format, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include commands and descriptions in node labels")

	return cmd
}

// runExport loads the workflow, renders it, and writes the output file.
func (c *CLI) runExport(input, output, format string, detailed bool) error {
	w, err := workflow.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load workflow %s: %w", input, err)
	}

	dot := render.ToDOT(w, render.Options{Detailed: detailed})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.SVG(dot)
	case "png":
		data, err = render.PNG(dot)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	c.Logger.Debugf("Generated %s: %d bytes", format, len(data))

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Export complete")
	printFile(outputPath)
	printStats(w.Count(), len(w.Edges()))

	return nil
}
