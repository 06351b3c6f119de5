package cmd

import (
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "查看内置 devcontainer 模板",
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
