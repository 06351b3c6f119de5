package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var stopTimeout int

var stopCmd = &cobra.Command{
	Use:   "stop [目录]",
	Short: "停止项目的开发容器",
	Long: `优先使用 .devcontainer 下的 compose 文件整体停止；
否则按工作区标签或容器名找到容器并逐个停止。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStop(cmd.Context(), workspaceArg(args))
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
	stopCmd.Flags().IntVarP(&stopTimeout, "timeout", "t", 0, "等待容器退出的秒数（默认取设置，10 秒）")
}

func runStop(ctx context.Context, workspace string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	mgr, err := newDockerManager(s)
	if err != nil {
		return err
	}

	timeout := s.StopTimeout()
	if stopTimeout > 0 {
		timeout = time.Duration(stopTimeout) * time.Second
	}

	res, err := mgr.Stop(ctx, workspace, timeout)
	if err != nil {
		return err
	}

	if res.UsedCompose {
		color.Green("✓ 已通过 compose 停止")
		return nil
	}
	if len(res.Stopped)+len(res.AlreadyGone)+len(res.Failed) == 0 {
		color.Yellow("没有找到运行中的开发容器")
		return nil
	}
	for _, id := range res.Stopped {
		color.Green("✓ 已停止 %s", id)
	}
	for _, id := range res.AlreadyGone {
		fmt.Printf("  %s 已停止\n", id)
	}
	for _, f := range res.Failed {
		color.Red("✗ %s: %v", f.ID, f.Err)
	}
	if res.PartialFailure() {
		return fmt.Errorf("%d 个容器停止失败", len(res.Failed))
	}
	return nil
}
