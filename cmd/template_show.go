package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/cc-devbox/internal/devcontainer"
	"github.com/YangQing-Lin/cc-devbox/internal/template"
)

var showDiffDir string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "显示模板内容，或与项目现有文件对比",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowTemplate(args[0])
	},
}

func init() {
	templateCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showDiffDir, "diff", "", "与该项目 .devcontainer/ 下的文件对比")
}

func runShowTemplate(id string) error {
	catalog, err := newCatalog()
	if err != nil {
		return err
	}
	entry, err := catalog.Get(id)
	if err != nil {
		return err
	}
	files, err := catalog.Files(entry)
	if err != nil {
		return err
	}

	color.Cyan("=== %s (%s) ===", entry.ID, entry.Label)
	if entry.Description != "" {
		fmt.Println(entry.Description)
	}

	for _, name := range files {
		if showDiffDir == "" {
			data, err := catalog.ReadFile(entry, name)
			if err != nil {
				return err
			}
			color.Cyan("\n--- %s ---", name)
			fmt.Print(string(data))
			continue
		}

		target := filepath.Join(devcontainer.ConfigDir(showDiffDir), filepath.FromSlash(name))
		diff, err := catalog.Diff(entry, name, target)
		if err != nil {
			return err
		}
		color.Cyan("\n=== %s ===", name)
		if diff == template.NoDifferences {
			fmt.Println(diff)
			continue
		}
		fmt.Print(template.FormatDiffForCLI(diff))
	}
	return nil
}
