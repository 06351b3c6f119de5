package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/cc-devbox/internal/logging"
)

var (
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "cc-devbox",
	Short: "为项目生成 Claude Code 开发容器配置",
	Long: `cc-devbox 为项目生成 .devcontainer 配置并管理对应的容器。

使用方法：
  cc-devbox init [目录]           检测项目类型并生成 .devcontainer
  cc-devbox detect [目录]         只显示检测结果，不写文件
  cc-devbox stop [目录]           停止项目的开发容器
  cc-devbox template list        列出内置模板`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute 执行根命令，出错时以退出码 1 结束
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Default().Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

// setupLogging 根据 --verbose / --log-file 配置默认日志
func setupLogging() error {
	logger := logging.New(os.Stderr)
	if verbose {
		logger.SetLevel(logging.LevelDebug)
	}
	if logFile != "" {
		if err := logger.OpenFile(logFile); err != nil {
			return err
		}
	}
	logging.SetDefault(logger)
	logging.Debugf("run id %s", logger.RunID())
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "同时将日志追加写入该文件")

	// 自定义帮助模板
	rootCmd.SetHelpTemplate(`{{.Long}}

{{if .HasAvailableSubCommands}}可用命令:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}

{{if .HasAvailableLocalFlags}}选项:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

使用 "{{.CommandPath}} [command] --help" 获取更多关于命令的信息。
`)
}
