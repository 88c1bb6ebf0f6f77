package util

import (
	"fmt"
	"time"
)

// MondayOf 返回 t 所在 ISO 周的周一（零点，保留时区）
func MondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, -(weekday - 1))
}

// WorkweekRange 格式化 t 所在周的周一到周五，用作周报表头的日期
// 返回格式: "2025/10/13 - 2025/10/17"
func WorkweekRange(t time.Time) string {
	mon := MondayOf(t)
	fri := mon.AddDate(0, 0, 4)
	return fmt.Sprintf("%s - %s", mon.Format("2006/01/02"), fri.Format("2006/01/02"))
}

// WeekdayDates 返回 t 所在周周一到周日的 "MM.DD" 日期
func WeekdayDates(t time.Time) [7]string {
	var out [7]string
	mon := MondayOf(t)
	for i := range out {
		out[i] = mon.AddDate(0, 0, i).Format("01.02")
	}
	return out
}
