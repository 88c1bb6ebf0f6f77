package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

func TestBuildSheet_DayLogMatching(t *testing.T) {
	data := &models.StructuredReportData{
		DailyLogs: []models.DailyLog{{Day: "星期一 (Monday)", Date: "10.13", Content: "C"}},
	}

	sheet := BuildSheet(data, models.ReportMeta{})
	require.Len(t, sheet.DayRows, 7)

	assert.Equal(t, "星期一", sheet.DayRows[0].Day)
	assert.Equal(t, "C", sheet.DayRows[0].Content)
	assert.Equal(t, "10.13", sheet.DayRows[0].Date)
	assert.Equal(t, 0, sheet.DayRows[0].LogIndex)

	for i := 1; i < 7; i++ {
		row := sheet.DayRows[i]
		assert.Equal(t, WeekdayLabels[i], row.Day)
		assert.Empty(t, row.Content)
		assert.Empty(t, row.Date)
		assert.Equal(t, -1, row.LogIndex)
	}
}

func TestBuildSheet_FirstMatchWins(t *testing.T) {
	data := &models.StructuredReportData{
		DailyLogs: []models.DailyLog{
			{Day: "星期三", Content: "first"},
			{Day: "星期三", Content: "second"},
		},
	}
	sheet := BuildSheet(data, models.ReportMeta{})
	assert.Equal(t, "first", sheet.DayRows[2].Content)
	assert.Equal(t, 0, sheet.DayRows[2].LogIndex)
}

func TestBuildSheet_ProblemsArePositional(t *testing.T) {
	data := &models.StructuredReportData{
		DailyLogs:            []models.DailyLog{{Day: "星期三", Content: "W"}},
		ProblemsAndSolutions: []models.ProblemSolution{{Problem: "P1"}},
	}

	sheet := BuildSheet(data, models.ReportMeta{})

	first := sheet.DayRows[0]
	assert.True(t, first.HasProblem)
	assert.Equal(t, "1", first.ProblemNo)
	assert.Equal(t, "P1", first.Problem)

	for i := 1; i < 7; i++ {
		row := sheet.DayRows[i]
		assert.False(t, row.HasProblem)
		assert.Empty(t, row.ProblemNo, "no leaked row number at %d", i)
		assert.Empty(t, row.Problem)
		assert.Empty(t, row.Solution)
		assert.Empty(t, row.Resolved)
	}
	assert.Equal(t, "W", sheet.DayRows[2].Content)
}

func TestBuildSheet_SummaryRowsFixedAtThree(t *testing.T) {
	data := &models.StructuredReportData{
		WeeklySummary:     []string{"a", "b", "c", "d", "e"},
		NextWeekAttention: []string{"x"},
	}

	sheet := BuildSheet(data, models.ReportMeta{})
	require.Len(t, sheet.SummaryRows, 3)
	assert.Equal(t, SummaryRow{No: 1, Summary: "a", Attention: "x"}, sheet.SummaryRows[0])
	assert.Equal(t, SummaryRow{No: 2, Summary: "b", Attention: ""}, sheet.SummaryRows[1])
	assert.Equal(t, SummaryRow{No: 3, Summary: "c", Attention: ""}, sheet.SummaryRows[2])
}

func TestBuildSheet_PlanRowsUnbounded(t *testing.T) {
	data := &models.StructuredReportData{}
	for i := 0; i < 9; i++ {
		data.NextWeekPlan = append(data.NextWeekPlan, models.PlanItem{Day: "星期一", Content: string(rune('A' + i))})
	}

	sheet := BuildSheet(data, models.ReportMeta{})
	require.Len(t, sheet.PlanRows, 9)
	for i, r := range sheet.PlanRows {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, string(rune('A'+i)), r.Content)
	}
}

func TestBuildSheet_NilData(t *testing.T) {
	meta := models.DefaultReportMeta("r")
	sheet := BuildSheet(nil, meta)
	assert.Len(t, sheet.SummaryRows, 3)
	assert.Len(t, sheet.DayRows, 7)
	assert.Empty(t, sheet.PlanRows)
	assert.Equal(t, meta, sheet.Meta)
}

func TestBusiestDay(t *testing.T) {
	tests := []struct {
		name   string
		counts map[models.DayKey]int
		want   models.DayKey
		ok     bool
	}{
		{"tie resolves to first", map[models.DayKey]int{models.Monday: 2, models.Tuesday: 2}, models.Monday, true},
		{"strict max", map[models.DayKey]int{models.Monday: 1, models.Thursday: 3, models.Friday: 2}, models.Thursday, true},
		{"late tie", map[models.DayKey]int{models.Wednesday: 4, models.Friday: 4}, models.Wednesday, true},
		{"all zero", map[models.DayKey]int{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BusiestDay(tt.counts)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPresentation_RenderReport(t *testing.T) {
	p, err := NewPresentation()
	require.NoError(t, err)

	data := &models.StructuredReportData{
		WeeklySummary: []string{"<script>alert(1)</script>"},
		DailyLogs:     []models.DailyLog{{Day: "星期二", Date: "10.14", Content: "联调"}},
		FinalSummary:  "按时达成",
	}
	meta := models.ReportMeta{Name: "张三", Role: "工程师", Supervisor: "李四", DateRange: "2025/10/13 - 2025/10/17"}
	styles := ApplyTheme(Presets()[1])

	var buf bytes.Buffer
	require.NoError(t, p.RenderReport(&buf, BuildSheet(data, meta), styles))

	html := buf.String()
	assert.Contains(t, html, "工 作 周 报")
	assert.Contains(t, html, "张三")
	assert.Contains(t, html, "联调")
	assert.Contains(t, html, "按时达成")
	assert.Contains(t, html, "#3b82f6")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
