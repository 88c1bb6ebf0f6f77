package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredReportData_CloneKeepsEmptyLists(t *testing.T) {
	src := &StructuredReportData{
		WeeklySummary:        []string{},
		NextWeekAttention:    []string{"a"},
		DailyLogs:            []DailyLog{},
		ProblemsAndSolutions: nil,
		NextWeekPlan:         []PlanItem{},
	}

	out := src.Clone()
	require.NotNil(t, out.WeeklySummary)
	require.NotNil(t, out.DailyLogs)
	require.NotNil(t, out.NextWeekPlan)
	assert.Nil(t, out.ProblemsAndSolutions)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"weeklySummary":[]`)
	assert.Contains(t, string(raw), `"problemsAndSolutions":null`)
}

func TestStructuredReportData_CloneIsIndependent(t *testing.T) {
	src := &StructuredReportData{
		WeeklySummary: []string{"a"},
		DailyLogs:     []DailyLog{{Day: "星期一", Content: "x"}},
	}
	out := src.Clone()
	out.WeeklySummary[0] = "b"
	out.DailyLogs[0].Content = "y"

	assert.Equal(t, "a", src.WeeklySummary[0])
	assert.Equal(t, "x", src.DailyLogs[0].Content)
	assert.Nil(t, (*StructuredReportData)(nil).Clone())
}
