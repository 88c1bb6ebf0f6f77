package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/cmd/server/internal/utils"
)

// FileStore 将草稿保存为 {dir}/weekly_report_draft.json
type FileStore struct {
	path     string
	maxBytes int
	mu       sync.RWMutex
}

// NewFileStore 创建文件草稿存储
func NewFileStore(dir string, maxBytes int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create draft directory: %w", err)
	}
	return &FileStore{
		path:     filepath.Join(dir, StorageKey+".json"),
		maxBytes: maxBytes,
	}, nil
}

// Path 草稿文件路径
func (s *FileStore) Path() string {
	return s.path
}

// Save 原子写入，超出容量时返回 ErrStorageFull 且不改动已有文件
func (s *FileStore) Save(_ context.Context, week models.WeekData) error {
	data, err := encode(week, s.maxBytes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// Load 读取草稿
func (s *FileStore) Load(_ context.Context) (models.WeekData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	return decode(data)
}

// Exists 是否已保存草稿
func (s *FileStore) Exists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Close 文件存储无需释放资源
func (s *FileStore) Close() error {
	return nil
}
