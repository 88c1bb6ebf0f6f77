package render

import "github.com/houzhh15/weekly-report/cmd/server/internal/models"

// BusiestDay 返回任务数严格最大的工作日，并列时取靠前的一天
// 所有工作日都为 0 时 ok 为 false
func BusiestDay(counts map[models.DayKey]int) (day models.DayKey, ok bool) {
	best := 0
	for _, d := range models.DaysOfWeek {
		if counts[d] > best {
			best = counts[d]
			day = d
			ok = true
		}
	}
	return day, ok
}
