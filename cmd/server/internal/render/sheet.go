package render

import (
	"strconv"
	"strings"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// WeekdayLabels 日志表固定的 7 行，周一到周日
var WeekdayLabels = [7]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

// SummaryRowCount 总结区和注意事项区固定行数
const SummaryRowCount = 3

// SummaryRow 总结区一行：左侧本周工作，右侧下周注意事项
type SummaryRow struct {
	No        int    `json:"no"`
	Summary   string `json:"summary"`
	Attention string `json:"attention"`
}

// DayRow 日志与问题并排的一行
// 左侧按星期名匹配 dailyLogs，右侧按行号位置对应 problemsAndSolutions
type DayRow struct {
	Day      string `json:"day"`
	Date     string `json:"date"`
	Content  string `json:"content"`
	LogIndex int    `json:"logIndex"` // dailyLogs 中的下标，未匹配为 -1

	ProblemNo  string `json:"problemNo"` // 仅在该行存在问题条目时为 "1".."7"
	Problem    string `json:"problem"`
	Solution   string `json:"solution"`
	Resolved   string `json:"resolved"`
	HasProblem bool   `json:"hasProblem"`
}

// PlanRow 下周计划一行
type PlanRow struct {
	Index   int    `json:"index"`
	Day     string `json:"day"`
	Content string `json:"content"`
}

// Sheet 固定结构的周报表格模型
type Sheet struct {
	Meta         models.ReportMeta `json:"meta"`
	SummaryRows  []SummaryRow      `json:"summaryRows"`
	DayRows      []DayRow          `json:"dayRows"`
	PlanRows     []PlanRow         `json:"planRows"`
	FinalSummary string            `json:"finalSummary"`
}

// BuildSheet 把结构化周报映射为表格，任何缺失的下标都渲染为空单元格
func BuildSheet(data *models.StructuredReportData, meta models.ReportMeta) Sheet {
	if data == nil {
		data = &models.StructuredReportData{}
	}

	sheet := Sheet{
		Meta:         meta,
		SummaryRows:  make([]SummaryRow, SummaryRowCount),
		DayRows:      make([]DayRow, len(WeekdayLabels)),
		PlanRows:     make([]PlanRow, 0, len(data.NextWeekPlan)),
		FinalSummary: data.FinalSummary,
	}

	for i := 0; i < SummaryRowCount; i++ {
		sheet.SummaryRows[i] = SummaryRow{
			No:        i + 1,
			Summary:   stringAt(data.WeeklySummary, i),
			Attention: stringAt(data.NextWeekAttention, i),
		}
	}

	for i, label := range WeekdayLabels {
		row := DayRow{Day: label, LogIndex: -1}
		if idx := matchDailyLog(data.DailyLogs, label); idx >= 0 {
			row.LogIndex = idx
			row.Date = data.DailyLogs[idx].Date
			row.Content = data.DailyLogs[idx].Content
		}
		// 问题表按位置对应，不按星期名匹配
		if i < len(data.ProblemsAndSolutions) {
			p := data.ProblemsAndSolutions[i]
			row.HasProblem = true
			row.ProblemNo = strconv.Itoa(i + 1)
			row.Problem = p.Problem
			row.Solution = p.Solution
			row.Resolved = p.Resolved
		}
		sheet.DayRows[i] = row
	}

	for i, p := range data.NextWeekPlan {
		sheet.PlanRows = append(sheet.PlanRows, PlanRow{Index: i, Day: p.Day, Content: p.Content})
	}

	return sheet
}

// matchDailyLog 返回第一个 day 等于或包含 label 的日志下标
func matchDailyLog(logs []models.DailyLog, label string) int {
	for i, l := range logs {
		if l.Day == label || strings.Contains(l.Day, label) {
			return i
		}
	}
	return -1
}

func stringAt(s []string, i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return s[i]
}
