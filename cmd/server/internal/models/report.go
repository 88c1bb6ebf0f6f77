package models

import "slices"

// ReportStatus 周报生成状态
type ReportStatus string

const (
	ReportIdle    ReportStatus = "idle"
	ReportLoading ReportStatus = "loading"
	ReportSuccess ReportStatus = "success"
	ReportError   ReportStatus = "error"
)

// DailyLog 每日工作记录，Day 为 AI 生成的中文星期标签（如 "星期一"）
type DailyLog struct {
	Day     string `json:"day"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// ProblemSolution 问题与建议解决办法，Resolved 为 "是/否/推进中" 等自由文本
type ProblemSolution struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
	Resolved string `json:"resolved"`
}

// PlanItem 下周计划条目
type PlanItem struct {
	Day     string `json:"day"`
	Content string `json:"content"`
}

// StructuredReportData AI 生成的结构化周报
// 所有字段都可能缺失，渲染层按空值处理
type StructuredReportData struct {
	WeeklySummary        []string          `json:"weeklySummary"`
	NextWeekAttention    []string          `json:"nextWeekAttention"`
	DailyLogs            []DailyLog        `json:"dailyLogs"`
	ProblemsAndSolutions []ProblemSolution `json:"problemsAndSolutions"`
	NextWeekPlan         []PlanItem        `json:"nextWeekPlan"`
	FinalSummary         string            `json:"finalSummary"`
}

// Clone 深拷贝，保证调用方修改不会影响原对象
func (d *StructuredReportData) Clone() *StructuredReportData {
	if d == nil {
		return nil
	}
	out := &StructuredReportData{FinalSummary: d.FinalSummary}
	out.WeeklySummary = slices.Clone(d.WeeklySummary)
	out.NextWeekAttention = slices.Clone(d.NextWeekAttention)
	out.DailyLogs = slices.Clone(d.DailyLogs)
	out.ProblemsAndSolutions = slices.Clone(d.ProblemsAndSolutions)
	out.NextWeekPlan = slices.Clone(d.NextWeekPlan)
	return out
}

// ReportMeta 周报表头信息
type ReportMeta struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Supervisor string `json:"supervisor"`
	DateRange  string `json:"dateRange"`
}

// DefaultReportMeta 表头占位值
func DefaultReportMeta(dateRange string) ReportMeta {
	return ReportMeta{
		Name:       "您的姓名",
		Role:       "岗位名称",
		Supervisor: "直属上级",
		DateRange:  dateRange,
	}
}
