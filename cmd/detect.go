package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/cc-devbox/internal/compose"
	"github.com/YangQing-Lin/cc-devbox/internal/scaffold"
)

var detectTemplate string

var detectCmd = &cobra.Command{
	Use:   "detect [目录]",
	Short: "显示项目检测结果与将使用的模板",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect(workspaceArg(args))
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVarP(&detectTemplate, "template", "t", "", "指定模板 ID")
}

func runDetect(workspace string) error {
	catalog, err := newCatalog()
	if err != nil {
		return err
	}
	in, err := scaffold.Inspect(workspace, catalog, detectTemplate)
	if err != nil {
		return err
	}

	color.Cyan("=== %s ===", in.Workspace)
	fmt.Printf("项目类型: %s\n", color.GreenString(string(in.Classification.Kind)))

	keys := make([]string, 0, len(in.Classification.Evidence))
	for k := range in.Classification.Evidence {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", k, in.Classification.Evidence[k])
	}

	if in.Compose.Found {
		fmt.Printf("Compose: %s\n", in.Compose.FileName)
		details := compose.DescribeServices(in.Compose.Path(in.Workspace))
		if len(in.Services) == 0 {
			fmt.Println("  (未找到服务)")
		}
		for _, s := range in.Services {
			if d := details[s]; d != "" {
				fmt.Printf("  - %s  %s\n", s, d)
			} else {
				fmt.Printf("  - %s\n", s)
			}
		}
	} else {
		fmt.Println("Compose: 无")
	}

	entry, err := catalog.Get(in.TemplateID)
	if err != nil {
		return err
	}
	fmt.Printf("模板: %s (%s)\n", color.GreenString(entry.ID), entry.Label)
	return nil
}
