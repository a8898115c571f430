package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// listCommand creates the list command for showing stored workflows.
func (c *CLI) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context())
		},
	}

	return cmd
}

// runList prints the names of all stored workflows.
func (c *CLI) runList(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	s, closeStore, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	names, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("list workflows: %w", err)
	}

	if len(names) == 0 {
		printInfo("No workflows stored")
		printNextStep("Create one", "jobcanvas edit my-workflow.json")
		return nil
	}

	printInfo("%d workflow(s) in %s store", len(names), cfg.Store.Backend)
	for _, name := range names {
		printDetail("%s", name)
	}

	return nil
}
