package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// weekDays 看板工作日顺序
var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// dayLabels 工作日中文短名
var dayLabels = map[string]string{
	"Monday":    "周一",
	"Tuesday":   "周二",
	"Wednesday": "周三",
	"Thursday":  "周四",
	"Friday":    "周五",
}

// statusMarks 任务状态在文本输出中的标记
var statusMarks = map[string]string{
	"pending":     "[ ]",
	"in-progress": "[~]",
	"completed":   "[x]",
}

type task struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

// addOptionalString 如果命令行标志有值则添加到 body map
func addOptionalString(cmd *cobra.Command, body map[string]interface{}, flag string, jsonKeys ...string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, _ := cmd.Flags().GetString(flag)
	key := flag
	if len(jsonKeys) > 0 {
		key = jsonKeys[0]
	}
	body[key] = v
}

// mustGetString 获取必选的字符串标志
func mustGetString(cmd *cobra.Command, flag string) string {
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// themeQuery 拼接 ?theme=&primary= 查询串，标志为空时回退到配置中的主题
func themeQuery(cmd *cobra.Command, cfg *Config) string {
	q := url.Values{}
	theme := mustGetString(cmd, "theme")
	if theme == "" {
		theme = cfg.Theme
	}
	if theme != "" {
		q.Set("theme", theme)
	}
	if primary := mustGetString(cmd, "primary"); primary != "" {
		q.Set("primary", primary)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// addThemeFlags 主题相关标志
func addThemeFlags(cmd *cobra.Command) {
	cmd.Flags().String("theme", "", "预设主题名，如 商务蓝 (配置: theme)")
	cmd.Flags().String("primary", "", "自定义主色 #rrggbb，优先于 --theme")
}

// renderWeek 文本模式下按工作日列出任务
func renderWeek(data json.RawMessage) (string, error) {
	var week map[string][]task
	if err := json.Unmarshal(data, &week); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, day := range weekDays {
		fmt.Fprintf(&b, "%s (%s)\n", dayLabels[day], day)
		tasks := week[day]
		if len(tasks) == 0 {
			b.WriteString("  -\n")
			continue
		}
		for _, t := range tasks {
			fmt.Fprintf(&b, "  %s %s  %s [%s]\n", statusMarks[t.Status], t.ID, t.Content, t.Category)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// renderTask 文本模式下输出单条任务
func renderTask(data json.RawMessage) (string, error) {
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}
	var t task
	if err := json.Unmarshal(data, &t); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s  %s [%s]", statusMarks[t.Status], t.ID, t.Content, t.Category), nil
}

// renderMessage 只输出服务端消息
func renderMessage(json.RawMessage) (string, error) {
	return "", nil
}

// decodeJSON 解析响应体
func decodeJSON(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
