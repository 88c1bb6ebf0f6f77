package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// 错误定义
var (
	ErrTaskNotFound  = errors.New("TASK_NOT_FOUND")
	ErrInvalidDay    = errors.New("INVALID_DAY")
	ErrInvalidStatus = errors.New("INVALID_STATUS")
)

// 新建任务的默认值
const (
	DefaultTaskStatus   = models.StatusCompleted
	DefaultTaskCategory = "Dev"
)

// BoardService 一周任务看板
type BoardService interface {
	// Week 返回整周数据副本
	Week(ctx context.Context) models.WeekData

	// AddTask 在指定工作日末尾追加一条空任务
	AddTask(ctx context.Context, day models.DayKey) (*models.Task, error)

	// UpdateTask 部分更新任务
	UpdateTask(ctx context.Context, day models.DayKey, taskID string, patch models.TaskPatch) (*models.Task, error)

	// CycleStatus 循环切换任务状态
	CycleStatus(ctx context.Context, day models.DayKey, taskID string) (*models.Task, error)

	// DeleteTask 删除任务
	DeleteTask(ctx context.Context, day models.DayKey, taskID string) error

	// GetTask 读取单条任务
	GetTask(ctx context.Context, day models.DayKey, taskID string) (*models.Task, error)

	// Replace 整体替换（加载草稿）
	Replace(ctx context.Context, week models.WeekData)

	// Clear 清空所有任务
	Clear(ctx context.Context)
}

// boardService 看板实现，每次修改都替换整周对象
type boardService struct {
	mu    sync.RWMutex
	week  models.WeekData
	newID func() string
}

// NewBoardService 创建空看板
func NewBoardService() BoardService {
	return &boardService{
		week:  models.NewWeekData(),
		newID: uuid.NewString,
	}
}

func validDay(day models.DayKey) error {
	for _, d := range models.DaysOfWeek {
		if d == day {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidDay, day)
}

// Week 返回整周数据副本
func (s *boardService) Week(_ context.Context) models.WeekData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week.Clone()
}

// AddTask 追加空任务，默认状态已完成、分类 Dev
func (s *boardService) AddTask(_ context.Context, day models.DayKey) (*models.Task, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	task := models.Task{
		ID:       s.newID(),
		Content:  "",
		Status:   DefaultTaskStatus,
		Category: DefaultTaskCategory,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.week.Clone()
	next[day] = append(next[day], task)
	s.week = next
	return &task, nil
}

// mutateUnsafe 在副本上修改指定任务并替换整周数据（调用方需持有写锁）
func (s *boardService) mutateUnsafe(day models.DayKey, taskID string, fn func(t *models.Task) error) (*models.Task, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	next := s.week.Clone()
	tasks := next[day]
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		if err := fn(&tasks[i]); err != nil {
			return nil, err
		}
		s.week = next
		updated := tasks[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrTaskNotFound, day, taskID)
}

// UpdateTask 部分更新任务
func (s *boardService) UpdateTask(_ context.Context, day models.DayKey, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateUnsafe(day, taskID, func(t *models.Task) error {
		if patch.Content != nil {
			t.Content = *patch.Content
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		return nil
	})
}

// CycleStatus pending → in-progress → completed → pending
func (s *boardService) CycleStatus(_ context.Context, day models.DayKey, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateUnsafe(day, taskID, func(t *models.Task) error {
		t.Status = t.Status.Next()
		return nil
	})
}

// DeleteTask 删除任务
func (s *boardService) DeleteTask(_ context.Context, day models.DayKey, taskID string) error {
	if err := validDay(day); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.week[day]
	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("%w: %s/%s", ErrTaskNotFound, day, taskID)
	}

	next := s.week.Clone()
	next[day] = kept
	s.week = next
	return nil
}

// GetTask 读取单条任务
func (s *boardService) GetTask(_ context.Context, day models.DayKey, taskID string) (*models.Task, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.week[day] {
		if t.ID == taskID {
			found := t
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrTaskNotFound, day, taskID)
}

// Replace 整体替换
func (s *boardService) Replace(_ context.Context, week models.WeekData) {
	next := models.NewWeekData()
	for _, d := range models.DaysOfWeek {
		if tasks, ok := week[d]; ok {
			next[d] = append([]models.Task{}, tasks...)
		}
	}

	s.mu.Lock()
	s.week = next
	s.mu.Unlock()
}

// Clear 清空所有任务
func (s *boardService) Clear(_ context.Context) {
	s.mu.Lock()
	s.week = models.NewWeekData()
	s.mu.Unlock()
}
