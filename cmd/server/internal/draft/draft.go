package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// StorageKey 草稿的固定存储键
const StorageKey = "weekly_report_draft"

// DefaultMaxBytes 单份草稿的默认容量上限
const DefaultMaxBytes = 5 << 20

var (
	// ErrDraftNotFound 尚未保存过草稿
	ErrDraftNotFound = errors.New("DRAFT_NOT_FOUND")

	// ErrDraftCorrupt 草稿内容不是合法 JSON
	ErrDraftCorrupt = errors.New("DRAFT_CORRUPT")

	// ErrStorageFull 草稿超出容量上限，未写入
	ErrStorageFull = errors.New("STORAGE_FULL")
)

// Store 草稿存储，保存和读取都是整周数据整体替换
type Store interface {
	Save(ctx context.Context, week models.WeekData) error
	Load(ctx context.Context) (models.WeekData, error)
	Exists(ctx context.Context) (bool, error)
	Close() error
}

// encode 序列化并检查容量，maxBytes <= 0 表示不限制
func encode(week models.WeekData, maxBytes int) ([]byte, error) {
	data, err := json.Marshal(normalize(week))
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrStorageFull, len(data), maxBytes)
	}
	return data, nil
}

func decode(data []byte) (models.WeekData, error) {
	var week models.WeekData
	if err := json.Unmarshal(data, &week); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftCorrupt, err)
	}
	return normalize(week), nil
}

// normalize 只保留周一到周五，缺失的工作日补空列表
func normalize(week models.WeekData) models.WeekData {
	out := models.NewWeekData()
	for _, d := range models.DaysOfWeek {
		if tasks, ok := week[d]; ok && tasks != nil {
			cp := make([]models.Task, len(tasks))
			copy(cp, tasks)
			out[d] = cp
		}
	}
	return out
}
