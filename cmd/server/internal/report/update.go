package report

import (
	"errors"
	"fmt"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// Section 周报中可编辑的区域
type Section string

const (
	SectionWeeklySummary        Section = "weeklySummary"
	SectionNextWeekAttention    Section = "nextWeekAttention"
	SectionDailyLogs            Section = "dailyLogs"
	SectionProblemsAndSolutions Section = "problemsAndSolutions"
	SectionNextWeekPlan         Section = "nextWeekPlan"
	SectionFinalSummary         Section = "finalSummary"
)

// problemsAndSolutions 的子字段
const (
	SubFieldProblem  = "problem"
	SubFieldSolution = "solution"
	SubFieldResolved = "resolved"
)

var (
	// ErrUnknownSection 未知的区域或子字段
	ErrUnknownSection = errors.New("UNKNOWN_SECTION")

	// ErrIndexOutOfRange 下标超出当前序列长度，不会自动扩展
	ErrIndexOutOfRange = errors.New("INDEX_OUT_OF_RANGE")

	// ErrNoReport 尚未生成或加载周报
	ErrNoReport = errors.New("NO_REPORT")
)

// ParseSection 校验区域名
func ParseSection(s string) (Section, bool) {
	switch sec := Section(s); sec {
	case SectionWeeklySummary, SectionNextWeekAttention, SectionDailyLogs,
		SectionProblemsAndSolutions, SectionNextWeekPlan, SectionFinalSummary:
		return sec, true
	}
	return "", false
}

// UpdateField 修改单个字段并返回新对象，入参及其切片不会被修改
// finalSummary 忽略 index 和 subField；出错时返回原对象和错误
func UpdateField(data *models.StructuredReportData, section Section, index int, subField, value string) (*models.StructuredReportData, error) {
	if data == nil {
		return nil, ErrNoReport
	}

	checkIndex := func(n int) error {
		if index < 0 || index >= n {
			return fmt.Errorf("%w: %s[%d] (len=%d)", ErrIndexOutOfRange, section, index, n)
		}
		return nil
	}

	out := data.Clone()
	switch section {
	case SectionWeeklySummary:
		if err := checkIndex(len(out.WeeklySummary)); err != nil {
			return data, err
		}
		out.WeeklySummary[index] = value

	case SectionNextWeekAttention:
		if err := checkIndex(len(out.NextWeekAttention)); err != nil {
			return data, err
		}
		out.NextWeekAttention[index] = value

	case SectionDailyLogs:
		if err := checkIndex(len(out.DailyLogs)); err != nil {
			return data, err
		}
		out.DailyLogs[index].Content = value

	case SectionProblemsAndSolutions:
		if err := checkIndex(len(out.ProblemsAndSolutions)); err != nil {
			return data, err
		}
		ps := &out.ProblemsAndSolutions[index]
		switch subField {
		case SubFieldProblem:
			ps.Problem = value
		case SubFieldSolution:
			ps.Solution = value
		case SubFieldResolved:
			ps.Resolved = value
		default:
			return data, fmt.Errorf("%w: %s.%s", ErrUnknownSection, section, subField)
		}

	case SectionNextWeekPlan:
		if err := checkIndex(len(out.NextWeekPlan)); err != nil {
			return data, err
		}
		out.NextWeekPlan[index].Content = value

	case SectionFinalSummary:
		out.FinalSummary = value

	default:
		return data, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}

	return out, nil
}
