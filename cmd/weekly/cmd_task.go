package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "本周任务看板",
	}
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskEditCmd())
	cmd.AddCommand(newTaskCycleCmd())
	cmd.AddCommand(newTaskRefineCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	cmd.AddCommand(newTaskClearCmd())
	return cmd
}

func newTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "按工作日列出任务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Get("/api/v1/week")
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderWeek)
		},
	}
}

func newTaskAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <day>",
		Short: "在指定工作日添加任务",
		Long:  "day 取 Monday..Friday。不带 --content 时添加一条空任务。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Request(http.MethodPost, taskPath(args[0], ""), nil)
			if err != nil {
				return err
			}

			// 新任务创建后再补写内容
			body := map[string]interface{}{}
			addOptionalString(cmd, body, "content")
			addOptionalString(cmd, body, "status")
			addOptionalString(cmd, body, "category")
			if len(body) > 0 {
				var created struct {
					Data task `json:"data"`
				}
				if err := decodeJSON(data, &created); err != nil {
					return err
				}
				data, err = client.Request(http.MethodPatch, taskPath(args[0], created.Data.ID), body)
				if err != nil {
					return err
				}
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderTask)
		},
	}
	addTaskFieldFlags(cmd)
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <day> <id>",
		Short: "修改任务内容、状态或分类",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]interface{}{}
			addOptionalString(cmd, body, "content")
			addOptionalString(cmd, body, "status")
			addOptionalString(cmd, body, "category")
			if len(body) == 0 {
				return fmt.Errorf("nothing to update: set --content, --status or --category")
			}

			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Request(http.MethodPatch, taskPath(args[0], args[1]), body)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderTask)
		},
	}
	addTaskFieldFlags(cmd)
	return cmd
}

func newTaskCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <day> <id>",
		Short: "切换任务状态 (已完成 → 进行中 → 未开始 → 已完成)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Request(http.MethodPost, taskPath(args[0], args[1])+"/cycle", nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderTask)
		},
	}
}

func newTaskRefineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refine <day> <id>",
		Short: "用 AI 润色任务描述",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Request(http.MethodPost, taskPath(args[0], args[1])+"/refine", nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderTask)
		},
	}
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <day> <id>",
		Short: "删除任务",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Request(http.MethodDelete, taskPath(args[0], args[1]), nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderMessage)
		},
	}
}

func newTaskClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "清空本周所有任务和周报",
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			cfg := LoadConfig(cmd)
			client := NewAPIClient(cfg)
			data, err := client.Request(http.MethodDelete, "/api/v1/week", nil)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderMessage)
		},
	}
	cmd.Flags().Bool("yes", false, "确认清空")
	return cmd
}

func addTaskFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("content", "", "任务描述")
	cmd.Flags().String("status", "", "状态: completed / in-progress / pending")
	cmd.Flags().String("category", "", "分类，如 Dev / Meeting / Planning")
}

// taskPath /api/v1/week/{day}/tasks[/{id}]
func taskPath(day, id string) string {
	p := "/api/v1/week/" + day + "/tasks"
	if id != "" {
		p += "/" + id
	}
	return p
}
