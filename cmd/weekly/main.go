package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "weekly",
		Short:         "周报助手命令行工具",
		Long:          "通过命令行调用周报助手后端 HTTP API：记录任务、生成与编辑周报、导出 PDF。",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// 添加全局标志
	addGlobalFlags(rootCmd)

	// 注册所有分组子命令
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newDraftCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newThemesCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
