package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shwetalj/jobcanvas/pkg/layout"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// arrangeCommand creates the arrange command for auto-layouting workflow files.
func (c *CLI) arrangeCommand() *cobra.Command {
	var (
		output   string
		strategy string
		width    float64
		height   float64
	)

	cmd := &cobra.Command{
		Use:   "arrange [workflow.json]",
		Short: "Auto-arrange job positions in a workflow file",
		Long: `Auto-arrange job positions in a workflow file.

The arrange command reads a workflow JSON file, computes fresh positions for
every job, and writes the result back. The default "smart" strategy inspects
the dependency graph and picks a fitting layout; a specific strategy can be
forced with --strategy.

Available strategies: smart, layered, tree, htree, snake, scatter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArrange(cmd.Context(), args[0], output, strategy, width, height, cmd.Flags().Changed("width"), cmd.Flags().Changed("height"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite input in place)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "layout strategy (default: from config, usually smart)")
	cmd.Flags().Float64Var(&width, "width", layout.DefaultWidth, "canvas width hint")
	cmd.Flags().Float64Var(&height, "height", layout.DefaultHeight, "canvas height hint")

	return cmd
}

// runArrange loads the workflow, computes the layout, and writes output.
func (c *CLI) runArrange(ctx context.Context, input, output, strategy string, width, height float64, widthSet, heightSet bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	w, err := workflow.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load workflow %s: %w", input, err)
	}

	opts := cfg.LayoutOptions()
	if strategy != "" {
		if err := layout.ValidateStrategy(layout.Strategy(strategy)); err != nil {
			return err
		}
		opts.Strategy = layout.Strategy(strategy)
	}
	if widthSet {
		opts.Width = width
	}
	if heightSet {
		opts.Height = height
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Arranging %d jobs...", w.Count()))
	spinner.Start()

	prog := newProgress(c.Logger)
	if err := layout.Arrange(w, opts); err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("arrange: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Arranged %d jobs", w.Count()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := workflow.WriteFile(w, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(w.Count(), len(w.Edges()))
	printNewline()
	printNextStep("Open", "jobcanvas edit "+outputPath)

	return nil
}
