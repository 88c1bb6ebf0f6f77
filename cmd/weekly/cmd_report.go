package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type reportMeta struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Supervisor string `json:"supervisor"`
	DateRange  string `json:"dateRange"`
}

type reportView struct {
	Data      json.RawMessage `json:"data"`
	Meta      reportMeta      `json:"meta"`
	Status    string          `json:"status"`
	LastError string          `json:"last_error"`
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "生成、查看与编辑周报",
	}
	cmd.AddCommand(newReportGenerateCmd())
	cmd.AddCommand(newReportShowCmd())
	cmd.AddCommand(newReportLoadCmd())
	cmd.AddCommand(newReportEditCmd())
	cmd.AddCommand(newReportMetaCmd())
	cmd.AddCommand(newReportTextCmd())
	cmd.AddCommand(newReportSheetCmd())
	return cmd
}

func newReportGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "根据本周任务调用 AI 生成周报",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Request(http.MethodPost, "/api/v1/report/generate", nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderReportView)
		},
	}
}

func newReportShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "查看当前周报和生成状态",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Get("/api/v1/report")
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderReportView)
		},
	}
}

func newReportLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "从文件载入 AI 原始输出（允许带 Markdown 代码块）",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := mustGetString(cmd, "file")
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Request(http.MethodPost, "/api/v1/report/raw", map[string]interface{}{
				"raw": string(raw),
			})
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderReportView)
		},
	}
	cmd.Flags().StringP("file", "f", "", "原始输出文件路径 (必填)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newReportEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <section> <value>",
		Short: "编辑周报中的单个字段",
		Long: `section 取值:
  weeklySummary / nextWeekAttention      按 --index 编辑列表项
  dailyLogs / nextWeekPlan               --sub-field 为 day / date / content
  problemsAndSolutions                   --sub-field 为 problem / solution / resolved
  finalSummary                           整段文本
  meta                                   --sub-field 为 name / role / supervisor / dateRange`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			body := map[string]interface{}{
				"section": args[0],
				"index":   index,
				"value":   args[1],
			}
			addOptionalString(cmd, body, "sub-field", "sub_field")

			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Request(http.MethodPatch, "/api/v1/report/field", body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderReportView)
		},
	}
	cmd.Flags().Int("index", 0, "列表项下标（从 0 开始）")
	cmd.Flags().String("sub-field", "", "对象字段名")
	return cmd
}

func newReportMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "修改表头信息（姓名、岗位、上级、日期范围）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)

			// 读取当前表头，只覆盖传入的字段
			current, err := client.Get("/api/v1/report")
			if err != nil {
				return err
			}
			var env struct {
				Data reportView `json:"data"`
			}
			if err := decodeJSON(current, &env); err != nil {
				return err
			}
			meta := env.Data.Meta
			if cmd.Flags().Changed("name") {
				meta.Name = mustGetString(cmd, "name")
			}
			if cmd.Flags().Changed("role") {
				meta.Role = mustGetString(cmd, "role")
			}
			if cmd.Flags().Changed("supervisor") {
				meta.Supervisor = mustGetString(cmd, "supervisor")
			}
			if cmd.Flags().Changed("date-range") {
				meta.DateRange = mustGetString(cmd, "date-range")
			}

			data, err := client.Request(http.MethodPut, "/api/v1/report/meta", meta)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderReportView)
		},
	}
	cmd.Flags().String("name", "", "姓名")
	cmd.Flags().String("role", "", "岗位")
	cmd.Flags().String("supervisor", "", "直属上级")
	cmd.Flags().String("date-range", "", "日期范围，如 2025/10/13 - 2025/10/17")
	return cmd
}

func newReportTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text",
		Short: "输出可直接粘贴的纯文本摘要",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Get("/api/v1/report/text")
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, func(raw json.RawMessage) (string, error) {
				var t struct {
					Text string `json:"text"`
				}
				if err := json.Unmarshal(raw, &t); err != nil {
					return "", err
				}
				return t.Text, nil
			})
		},
	}
}

func newReportSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "查看带主题样式的表格模型 (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Get("/api/v1/report/sheet" + themeQuery(cmd, cfg))
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), "json", data, nil)
		},
	}
	addThemeFlags(cmd)
	return cmd
}

// renderReportView 文本模式下输出表头、状态和各栏目条数
func renderReportView(raw json.RawMessage) (string, error) {
	var v reportView
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s / %s / %s / %s\n", v.Meta.Name, v.Meta.Role, v.Meta.Supervisor, v.Meta.DateRange)
	fmt.Fprintf(&b, "status: %s", v.Status)
	if v.LastError != "" {
		fmt.Fprintf(&b, " (%s)", v.LastError)
	}
	if len(v.Data) == 0 || string(v.Data) == "null" {
		b.WriteString("\nreport: none")
		return b.String(), nil
	}

	var sections struct {
		WeeklySummary        []json.RawMessage `json:"weeklySummary"`
		NextWeekAttention    []json.RawMessage `json:"nextWeekAttention"`
		DailyLogs            []json.RawMessage `json:"dailyLogs"`
		ProblemsAndSolutions []json.RawMessage `json:"problemsAndSolutions"`
		NextWeekPlan         []json.RawMessage `json:"nextWeekPlan"`
		FinalSummary         string            `json:"finalSummary"`
	}
	if err := json.Unmarshal(v.Data, &sections); err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "\nweeklySummary: %d\nnextWeekAttention: %d\ndailyLogs: %d\nproblemsAndSolutions: %d\nnextWeekPlan: %d",
		len(sections.WeeklySummary), len(sections.NextWeekAttention), len(sections.DailyLogs),
		len(sections.ProblemsAndSolutions), len(sections.NextWeekPlan))
	if sections.FinalSummary != "" {
		fmt.Fprintf(&b, "\nfinalSummary: %s", sections.FinalSummary)
	}
	return b.String(), nil
}
