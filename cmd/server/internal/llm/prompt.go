package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/util"
)

// RefineMaxRunes 润色结果的长度上限
const RefineMaxRunes = 30

var weekdayNames = [7]string{"星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}

// BuildReportPrompt 生成周报的提示词，now 用于推算本周各天日期
func BuildReportPrompt(week models.WeekData, now time.Time) (string, error) {
	raw, err := json.MarshalIndent(week.Clone(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal week data: %w", err)
	}

	dates := util.WeekdayDates(now)
	refs := make([]string, 0, len(dates))
	for i, d := range dates {
		refs = append(refs, fmt.Sprintf("%s %s", weekdayNames[i], d))
	}

	return fmt.Sprintf(`你是一位专业的行政助手。请将以下工作日志转换为结构化的 JSON 数据，用于填充一份标准的"传统工作周报"。

原始数据:
%s

**任务要求**:
请分析数据，并严格按照以下 JSON 格式输出。不要输出 Markdown，只输出纯 JSON 字符串。

你需要推断或生成以下内容：
1. **weeklySummary**: 从本周所有任务中提炼 3-5 点主要工作成果。
2. **nextWeekAttention**: 基于本周未完成的任务或常规逻辑，提出下周需要注意的 2-3 点事项。
3. **dailyLogs**: 将每天的任务合并为一段通顺的文字。如果没有具体日期，请根据 WeekData 的 Key (Monday, Tuesday...) 生成。
4. **problemsAndSolutions**: 分析本周遇到的困难（如未完成的任务、卡点），提出问题和建议解决办法。如果没有明显问题，请根据行业惯例生成 1-2 条通用的优化建议（例如：流程优化、文档沉淀）。
5. **nextWeekPlan**: 根据本周进度，规划下周每天的大致内容。
6. **finalSummary**: 一句精炼的总结语，评价本周表现（如：工作饱和，按时达成目标）。

**输出 JSON 结构 (Schema)**:
{
  "weeklySummary": ["工作项1", "工作项2"...],
  "nextWeekAttention": ["注意事项1"...],
  "dailyLogs": [
    { "day": "星期一", "date": "MM.DD", "content": "1. ..." },
    { "day": "星期二", "date": "MM.DD", "content": "..." },
    ... (确保周一到周五都有，周六日可选)
  ],
  "problemsAndSolutions": [
    { "problem": "...", "solution": "...", "resolved": "是/否/推进中" }
  ],
  "nextWeekPlan": [
    { "day": "星期一", "content": "..." },
    ...
  ],
  "finalSummary": "..."
}

**注意**:
- date 字段使用本周的具体日期：%s。
- 语言风格：简洁、专业、行政公文风。
`, raw, strings.Join(refs, "，")), nil
}

// BuildRefinePrompt 单条任务润色的提示词
func BuildRefinePrompt(content string) string {
	return fmt.Sprintf(`角色：你是一位专业的职场写作助理。
任务：将用户输入的简短工作记录改写为一句专业、简洁、结果导向的工作日志。
语言：简体中文。
限制：保持在一句话以内（不超过%d字），不要使用引号。

输入: "%s"
输出:
`, RefineMaxRunes, content)
}

// cleanRefined 只保留模型输出的第一行非空文本，去掉首尾空白和引号
func cleanRefined(s string) string {
	line := ""
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.Trim(line, "\"'“”「」")
	return strings.TrimSpace(line)
}
