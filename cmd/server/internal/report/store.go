package report

import (
	"sync"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// Store 持有当前周报和表头信息
// 每次修改都整体替换对象，读取方拿到的是独立副本
type Store struct {
	mu   sync.RWMutex
	data *models.StructuredReportData
	meta models.ReportMeta
}

// NewStore 创建周报存储，meta 为初始表头
func NewStore(meta models.ReportMeta) *Store {
	return &Store{meta: meta}
}

// Load 解析 AI 文本并替换当前周报；解析失败时保留原有数据
func (s *Store) Load(raw string) (*models.StructuredReportData, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.data = parsed
	s.mu.Unlock()
	return parsed.Clone(), nil
}

// Update 对当前周报执行 UpdateField 并保存结果
func (s *Store) Update(section Section, index int, subField, value string) (*models.StructuredReportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := UpdateField(s.data, section, index, subField, value)
	if err != nil {
		return nil, err
	}
	s.data = next
	return next.Clone(), nil
}

// Current 返回当前周报副本，未生成时返回 nil
func (s *Store) Current() *models.StructuredReportData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Meta 返回表头信息
func (s *Store) Meta() models.ReportMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// SetMeta 整体替换表头信息
func (s *Store) SetMeta(meta models.ReportMeta) {
	s.mu.Lock()
	s.meta = meta
	s.mu.Unlock()
}

// Reset 清空当前周报，表头保留
func (s *Store) Reset() {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
}
