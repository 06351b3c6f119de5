package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/cc-devbox/internal/template"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有模板",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListTemplates()
	},
}

func init() {
	templateCmd.AddCommand(listCmd)
}

func runListTemplates() error {
	catalog, err := newCatalog()
	if err != nil {
		return err
	}

	entries := catalog.List()
	color.Cyan("=== Templates ===")
	for _, e := range entries {
		id := color.GreenString(e.ID)
		switch e.ID {
		case template.GenericID:
			id += " (fallback)"
		case template.ComposeID:
			id += " (compose)"
		}
		fmt.Printf("  ID: %s\n", id)
		fmt.Printf("  Name: %s\n", e.Label)
		if e.Description != "" {
			fmt.Printf("  Description: %s\n", e.Description)
		}
		fmt.Println()
	}
	color.Green("Total: %d templates", len(entries))
	return nil
}
