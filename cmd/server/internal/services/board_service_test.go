package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

func newTestBoard() *boardService {
	n := 0
	b := NewBoardService().(*boardService)
	b.newID = func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
	return b
}

func TestBoard_AddTaskDefaults(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard()

	task, err := b.AddTask(ctx, models.Tuesday)
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "", task.Content)
	assert.Equal(t, models.StatusCompleted, task.Status)
	assert.Equal(t, "Dev", task.Category)

	week := b.Week(ctx)
	assert.Len(t, week[models.Tuesday], 1)
	assert.Empty(t, week[models.Monday])

	_, err = b.AddTask(ctx, "Saturday")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestBoard_WeekIsCopy(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard()
	_, err := b.AddTask(ctx, models.Monday)
	require.NoError(t, err)

	week := b.Week(ctx)
	week[models.Monday][0].Content = "被外部修改"

	again := b.Week(ctx)
	assert.Equal(t, "", again[models.Monday][0].Content)
}

func TestBoard_UpdateTask(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard()
	task, _ := b.AddTask(ctx, models.Monday)

	content := "需求评审"
	category := "Meeting"
	updated, err := b.UpdateTask(ctx, models.Monday, task.ID, models.TaskPatch{Content: &content, Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "需求评审", updated.Content)
	assert.Equal(t, "Meeting", updated.Category)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	bad := models.TaskStatus("done")
	_, err = b.UpdateTask(ctx, models.Monday, task.ID, models.TaskPatch{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = b.UpdateTask(ctx, models.Monday, "missing", models.TaskPatch{Content: &content})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// 任务在周一，按周二查找不到
	_, err = b.UpdateTask(ctx, models.Tuesday, task.ID, models.TaskPatch{Content: &content})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestBoard_CycleStatus(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard()
	task, _ := b.AddTask(ctx, models.Friday)

	expected := []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusPending}
	for _, want := range expected {
		got, err := b.CycleStatus(ctx, models.Friday, task.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
}

func TestBoard_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard()
	t1, _ := b.AddTask(ctx, models.Wednesday)
	t2, _ := b.AddTask(ctx, models.Wednesday)

	require.NoError(t, b.DeleteTask(ctx, models.Wednesday, t1.ID))
	week := b.Week(ctx)
	require.Len(t, week[models.Wednesday], 1)
	assert.Equal(t, t2.ID, week[models.Wednesday][0].ID)

	assert.ErrorIs(t, b.DeleteTask(ctx, models.Wednesday, t1.ID), ErrTaskNotFound)

	_, err := b.GetTask(ctx, models.Wednesday, t2.ID)
	require.NoError(t, err)

	b.Clear(ctx)
	week = b.Week(ctx)
	assert.Len(t, week, 5)
	assert.Empty(t, week.AllTasks())
}

func TestBoard_Replace(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard()

	in := models.WeekData{
		models.Thursday: {{ID: "x", Content: "部署", Status: models.StatusPending}},
		"Sunday":        {{ID: "y"}},
	}
	b.Replace(ctx, in)
	in[models.Thursday][0].Content = "改掉"

	week := b.Week(ctx)
	assert.Len(t, week, 5)
	assert.Equal(t, "部署", week[models.Thursday][0].Content)
	_, ok := week["Sunday"]
	assert.False(t, ok)
}
