package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/cc-devbox/internal/scaffold"
)

var (
	initTemplate   string
	initService    string
	initUser       string
	initMounts     []string
	initNoFirewall bool
	initForce      bool
)

var initCmd = &cobra.Command{
	Use:   "init [目录]",
	Short: "生成 .devcontainer 配置",
	Long: `检测项目类型与 compose 文件，选择模板写入 .devcontainer/，
并补充 Claude 配置卷、防火墙钩子等设置。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.Context(), workspaceArg(args))
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "", "指定模板 ID（见 template list）")
	initCmd.Flags().StringVarP(&initService, "service", "s", "", "compose 项目中 devcontainer 使用的服务")
	initCmd.Flags().StringArrayVarP(&initMounts, "mount", "m", nil, "额外的挂载声明，可重复")
	initCmd.Flags().StringVar(&initUser, "user", "", "模板未指定时使用的 remoteUser")
	initCmd.Flags().BoolVar(&initNoFirewall, "no-firewall", false, "不安装出站防火墙脚本")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "覆盖已有的 .devcontainer 文件")
}

func runInit(ctx context.Context, workspace string) error {
	catalog, err := newCatalog()
	if err != nil {
		return err
	}
	p := newPrompter()

	opts := scaffold.Options{
		Workspace:  workspace,
		Template:   initTemplate,
		Service:    initService,
		Mounts:     initMounts,
		RemoteUser: initUser,
		NoFirewall: initNoFirewall,
		Force:      initForce,
	}
	deps := scaffold.Deps{Catalog: catalog, Chooser: p}

	res, err := scaffold.Run(ctx, opts, deps)
	if errors.Is(err, scaffold.ErrAlreadyInitialized) {
		ok, cerr := p.Confirm("已存在 devcontainer.json，是否覆盖?")
		if cerr != nil {
			return cerr
		}
		if !ok {
			return err
		}
		opts.Force = true
		res, err = scaffold.Run(ctx, opts, deps)
	}
	if err != nil {
		return err
	}

	printInitResult(res)
	return nil
}

func printInitResult(res *scaffold.Result) {
	color.Green("✓ 已生成 %s", res.ConfigPath)
	fmt.Printf("  项目类型: %s\n", res.Classification.Kind)
	fmt.Printf("  模板: %s\n", res.TemplateID)
	if res.Compose.Found {
		fmt.Printf("  Compose: %s (服务 %s)\n", res.Compose.FileName, res.Service)
	}
	for _, name := range res.Files.Written {
		fmt.Printf("  + %s\n", name)
	}
	for _, name := range res.Files.Skipped {
		fmt.Printf("  = %s (已存在，保留)\n", name)
	}
	for _, spec := range res.MountsAdded {
		fmt.Printf("  挂载: %s\n", spec)
	}
	if res.Firewall {
		fmt.Println("  防火墙: 已启用")
	}
	for _, w := range res.Warnings {
		color.Yellow("  ⚠ %s", w)
	}
}
