package models

import "strings"

// DayKey 工作日标识，只记录周一到周五
type DayKey string

const (
	Monday    DayKey = "Monday"
	Tuesday   DayKey = "Tuesday"
	Wednesday DayKey = "Wednesday"
	Thursday  DayKey = "Thursday"
	Friday    DayKey = "Friday"
)

// DaysOfWeek 任务看板的固定顺序
var DaysOfWeek = []DayKey{Monday, Tuesday, Wednesday, Thursday, Friday}

// dayLabels 看板日期的中文短名（用于看板"最忙"展示）
var dayLabels = map[DayKey]string{
	Monday:    "周一",
	Tuesday:   "周二",
	Wednesday: "周三",
	Thursday:  "周四",
	Friday:    "周五",
}

// Label 返回中文短名，未知值原样返回
func (d DayKey) Label() string {
	if l, ok := dayLabels[d]; ok {
		return l
	}
	return string(d)
}

// ParseDayKey 解析日期标识，大小写不敏感，支持三字母缩写
func ParseDayKey(s string) (DayKey, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, d := range DaysOfWeek {
		name := strings.ToLower(string(d))
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, true
		}
	}
	return "", false
}

// TaskStatus 任务状态
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Next 返回循环切换后的状态: pending → in-progress → completed → pending
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Valid 判断状态是否为三种合法值之一
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Task 单条工作任务
type Task struct {
	ID       string     `json:"id"`
	Content  string     `json:"content"`
	Status   TaskStatus `json:"status"`
	Category string     `json:"category,omitempty"` // 例如 Dev / Meeting / Planning
}

// TaskPatch 任务的部分更新，nil 字段保持不变
type TaskPatch struct {
	Content  *string     `json:"content,omitempty"`
	Status   *TaskStatus `json:"status,omitempty"`
	Category *string     `json:"category,omitempty"`
}

// WeekData 一周的任务集合，按工作日分组
type WeekData map[DayKey][]Task

// NewWeekData 创建五个工作日均为空列表的周数据
func NewWeekData() WeekData {
	w := make(WeekData, len(DaysOfWeek))
	for _, d := range DaysOfWeek {
		w[d] = []Task{}
	}
	return w
}

// Clone 深拷贝周数据，缺失的工作日补为空列表
func (w WeekData) Clone() WeekData {
	out := NewWeekData()
	for d, tasks := range w {
		cp := make([]Task, len(tasks))
		copy(cp, tasks)
		out[d] = cp
	}
	return out
}

// AllTasks 按周一到周五的顺序展开所有任务
func (w WeekData) AllTasks() []Task {
	var all []Task
	for _, d := range DaysOfWeek {
		all = append(all, w[d]...)
	}
	return all
}

// HasContent 至少有一条非空白任务内容
func (w WeekData) HasContent() bool {
	for _, d := range DaysOfWeek {
		for _, t := range w[d] {
			if strings.TrimSpace(t.Content) != "" {
				return true
			}
		}
	}
	return false
}
