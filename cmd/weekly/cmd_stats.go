package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "本周完成率与每日任务分布",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Get("/api/v1/stats")
			if err != nil {
				return err
			}
			// 看板为空时服务端返回 204
			if len(data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks this week")
				return nil
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderStats)
		},
	}
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "列出可用主题",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := LoadConfig(cmd)
			data, err := NewAPIClient(cfg).Get("/api/v1/themes")
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.Output, data, renderThemes)
		},
	}
}

func renderStats(raw json.RawMessage) (string, error) {
	var s struct {
		Total          int    `json:"total"`
		CompletionRate int    `json:"completion_rate"`
		BusiestLabel   string `json:"busiest_label"`
		Percentages    struct {
			Completed  int `json:"completed"`
			InProgress int `json:"in_progress"`
			Pending    int `json:"pending"`
		} `json:"percentages"`
		DailyCounts []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"daily_counts"`
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "total: %d  completion: %d%%\n", s.Total, s.CompletionRate)
	fmt.Fprintf(&b, "completed %d%% / in-progress %d%% / pending %d%%\n",
		s.Percentages.Completed, s.Percentages.InProgress, s.Percentages.Pending)
	for _, d := range s.DailyCounts {
		fmt.Fprintf(&b, "  %s %s %d\n", d.Label, strings.Repeat("#", d.Count), d.Count)
	}
	if s.BusiestLabel != "" {
		fmt.Fprintf(&b, "busiest: %s", s.BusiestLabel)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func renderThemes(raw json.RawMessage) (string, error) {
	var themes []map[string]interface{}
	if err := json.Unmarshal(raw, &themes); err != nil {
		return "", err
	}
	lines := make([]string, 0, len(themes))
	for _, t := range themes {
		lines = append(lines, fmt.Sprintf("%v  %v", t["name"], t["primary"]))
	}
	return strings.Join(lines, "\n"), nil
}
