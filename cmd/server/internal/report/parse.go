package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// ErrParse AI 返回的文本无法解析为结构化周报
var ErrParse = errors.New("REPORT_PARSE_FAILED")

// fenceRe 匹配模型偶尔包裹在 JSON 外层的 ```json 围栏
var fenceRe = regexp.MustCompile("```json\\r?\\n|\\r?\\n```")

// StripFence 去掉 ```json ... ``` 包裹，其余内容原样保留
func StripFence(raw string) string {
	return fenceRe.ReplaceAllString(raw, "")
}

// Parse 将 AI 返回文本解析为结构化周报
// 只要求 JSON 格式正确：缺失字段保持零值，数字、布尔等非字符串值按文本保留，
// 类型不符的栏目视为空，由渲染层按空单元格处理
func Parse(raw string) (*models.StructuredReportData, error) {
	clean := strings.TrimSpace(StripFence(raw))
	if clean == "" {
		return nil, fmt.Errorf("%w: empty content", ErrParse)
	}

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if rest := strings.TrimSpace(clean[dec.InputOffset():]); rest != "" {
		return nil, fmt.Errorf("%w: trailing content after JSON value", ErrParse)
	}

	fields, _ := doc.(map[string]interface{})
	data := &models.StructuredReportData{
		WeeklySummary:     textList(fields["weeklySummary"]),
		NextWeekAttention: textList(fields["nextWeekAttention"]),
		FinalSummary:      text(fields["finalSummary"]),
	}
	if objs := objectList(fields["dailyLogs"]); objs != nil {
		data.DailyLogs = make([]models.DailyLog, 0, len(objs))
		for _, o := range objs {
			data.DailyLogs = append(data.DailyLogs, models.DailyLog{
				Day: text(o["day"]), Date: text(o["date"]), Content: text(o["content"]),
			})
		}
	}
	if objs := objectList(fields["problemsAndSolutions"]); objs != nil {
		data.ProblemsAndSolutions = make([]models.ProblemSolution, 0, len(objs))
		for _, o := range objs {
			data.ProblemsAndSolutions = append(data.ProblemsAndSolutions, models.ProblemSolution{
				Problem: text(o["problem"]), Solution: text(o["solution"]), Resolved: text(o["resolved"]),
			})
		}
	}
	if objs := objectList(fields["nextWeekPlan"]); objs != nil {
		data.NextWeekPlan = make([]models.PlanItem, 0, len(objs))
		for _, o := range objs {
			data.NextWeekPlan = append(data.NextWeekPlan, models.PlanItem{
				Day: text(o["day"]), Content: text(o["content"]),
			})
		}
	}
	return data, nil
}

// text 把任意 JSON 值转为单元格文本，null 为空串
func text(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// textList 数组逐项转文本，非数组视为缺失
func textList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, text(item))
	}
	return out
}

// objectList 对象数组，非对象元素按空对象处理以保持下标位置；非数组返回 nil
func objectList(v interface{}) []map[string]interface{} {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		o, _ := item.(map[string]interface{})
		out = append(out, o)
	}
	return out
}
