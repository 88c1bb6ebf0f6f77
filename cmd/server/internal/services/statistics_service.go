package services

import (
	"context"
	"math"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/render"
)

// StatusBreakdown 各状态任务数
type StatusBreakdown struct {
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
}

// StatusPercentages 各状态占比（整数百分比，分别取整，合计不一定为 100）
type StatusPercentages struct {
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
}

// DailyCount 单个工作日的任务数
type DailyCount struct {
	Day   models.DayKey `json:"day"`
	Label string        `json:"label"`
	Count int           `json:"count"`
}

// WeekStats 看板统计
type WeekStats struct {
	Total          int                 `json:"total"`
	CompletionRate int                 `json:"completion_rate"`
	Breakdown      StatusBreakdown     `json:"breakdown"`
	Percentages    StatusPercentages   `json:"percentages"`
	DailyCounts    []DailyCount        `json:"daily_counts"`
	MaxTasks       int                 `json:"max_tasks"`
	BusiestDay     models.DayKey       `json:"busiest_day,omitempty"`
	BusiestLabel   string              `json:"busiest_label,omitempty"`
	ReportStatus   models.ReportStatus `json:"report_status,omitempty"`
}

// StatisticsService 统计计算服务接口
type StatisticsService interface {
	// Calculate 计算当前看板统计，没有任务时返回 nil
	Calculate(ctx context.Context) *WeekStats
}

// statisticsService 统计计算服务实现
type statisticsService struct {
	board  BoardService
	status func() models.ReportStatus
}

// NewStatisticsService 创建统计计算服务实例，status 用于附带当前周报状态，可为 nil
func NewStatisticsService(board BoardService, status func() models.ReportStatus) StatisticsService {
	return &statisticsService{board: board, status: status}
}

// Calculate 计算当前看板统计
func (s *statisticsService) Calculate(ctx context.Context) *WeekStats {
	stats := WeekStatistics(s.board.Week(ctx))
	if stats != nil && s.status != nil {
		stats.ReportStatus = s.status()
	}
	return stats
}

// percent 四舍五入的整数百分比
func percent(part, total int) int {
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// WeekStatistics 汇总一周任务；任务总数为 0 时返回 nil，不计算完成率
func WeekStatistics(week models.WeekData) *WeekStats {
	all := week.AllTasks()
	total := len(all)
	if total == 0 {
		return nil
	}

	stats := &WeekStats{Total: total}
	for _, t := range all {
		switch t.Status {
		case models.StatusCompleted:
			stats.Breakdown.Completed++
		case models.StatusInProgress:
			stats.Breakdown.InProgress++
		case models.StatusPending:
			stats.Breakdown.Pending++
		}
	}

	stats.CompletionRate = percent(stats.Breakdown.Completed, total)
	stats.Percentages = StatusPercentages{
		Completed:  percent(stats.Breakdown.Completed, total),
		InProgress: percent(stats.Breakdown.InProgress, total),
		Pending:    percent(stats.Breakdown.Pending, total),
	}

	counts := make(map[models.DayKey]int, len(models.DaysOfWeek))
	for _, d := range models.DaysOfWeek {
		n := len(week[d])
		counts[d] = n
		stats.DailyCounts = append(stats.DailyCounts, DailyCount{Day: d, Label: d.Label(), Count: n})
	}

	if day, ok := render.BusiestDay(counts); ok {
		stats.BusiestDay = day
		stats.BusiestLabel = day.Label()
		stats.MaxTasks = counts[day]
	}
	return stats
}
