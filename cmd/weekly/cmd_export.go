package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出周报",
	}

	pdfCmd := &cobra.Command{
		Use:   "pdf",
		Short: "导出单页 A4 宽度 PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Request(http.MethodPost, "/api/v1/report/export"+themeQuery(cmd, cfg), nil)
			if err != nil {
				return err
			}
			path := mustGetString(cmd, "file")
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%d bytes)\n", path, len(data))
			return nil
		},
	}
	pdfCmd.Flags().StringP("file", "f", "work_report.pdf", "输出文件路径")
	addThemeFlags(pdfCmd)
	cmd.AddCommand(pdfCmd)
	return cmd
}
