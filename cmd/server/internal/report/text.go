package report

import (
	"fmt"
	"strings"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// PlainText 生成可直接粘贴的纯文本摘要：本周总结 + 下周计划
func PlainText(data *models.StructuredReportData) string {
	if data == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("本周总结:\n")
	b.WriteString(strings.Join(data.WeeklySummary, "\n"))
	b.WriteString("\n\n下周计划:\n")

	plans := make([]string, 0, len(data.NextWeekPlan))
	for _, p := range data.NextWeekPlan {
		plans = append(plans, fmt.Sprintf("%s: %s", p.Day, p.Content))
	}
	b.WriteString(strings.Join(plans, "\n"))
	return b.String()
}
