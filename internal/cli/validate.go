package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shwetalj/jobcanvas/pkg/layout"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// validateCommand creates the validate command for checking workflow files.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [workflow.json]",
		Short: "Check a workflow file for structural problems",
		Long: `Check a workflow file for structural problems.

Validation reports duplicate job IDs, dependencies on unknown jobs, and
dependency cycles. A clean workflow prints its basic shape statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0])
		},
	}

	return cmd
}

// runValidate loads the workflow and reports any structural issues.
func (c *CLI) runValidate(input string) error {
	w, err := workflow.ReadFile(input)
	if err != nil {
		printError("Invalid workflow")
		printDetail("%v", err)
		return err
	}

	if err := w.Validate(); err != nil {
		printError("Invalid workflow")
		printDetail("%v", err)
		return err
	}

	g := w.BuildGraph()
	if _, err := layout.AssignLayers(g); err != nil {
		if errors.Is(err, layout.ErrCyclicGraph) {
			printError("Invalid workflow")
			printDetail("%v", err)
			return err
		}
		return fmt.Errorf("analyze workflow: %w", err)
	}

	printSuccess("Workflow is valid")
	printKeyValue("jobs", fmt.Sprintf("%d", w.Count()))
	printKeyValue("edges", fmt.Sprintf("%d", g.EdgeCount()))
	printKeyValue("roots", fmt.Sprintf("%d", len(g.Roots())))
	printKeyValue("shape", string(layout.Classify(g)))

	return nil
}
