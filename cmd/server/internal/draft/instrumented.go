package draft

import (
	"context"
	"errors"
	"time"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
	"github.com/houzhh15/weekly-report/pkg/metrics"
)

// instrumentedStore 为任意草稿存储记录 Prometheus 指标
type instrumentedStore struct {
	inner   Store
	backend string
}

// Instrument 包装存储，按 backend 标签记录操作次数、耗时和草稿大小
func Instrument(inner Store, backend string) Store {
	return &instrumentedStore{inner: inner, backend: backend}
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrDraftNotFound):
		return "not_found"
	case errors.Is(err, ErrDraftCorrupt):
		return "corrupt"
	case errors.Is(err, ErrStorageFull):
		return "full"
	default:
		return "failed"
	}
}

func (s *instrumentedStore) observe(operation string, start time.Time, err error) {
	metrics.RecordDraftOperation(s.backend, operation, statusOf(err))
	metrics.RecordDraftDuration(s.backend, operation, time.Since(start).Seconds())
}

func (s *instrumentedStore) Save(ctx context.Context, week models.WeekData) error {
	start := time.Now()
	err := s.inner.Save(ctx, week)
	s.observe("save", start, err)
	if err == nil {
		if data, encErr := encode(week, 0); encErr == nil {
			metrics.SetDraftSize(s.backend, len(data))
		}
	}
	return err
}

func (s *instrumentedStore) Load(ctx context.Context) (models.WeekData, error) {
	start := time.Now()
	week, err := s.inner.Load(ctx)
	s.observe("load", start, err)
	return week, err
}

func (s *instrumentedStore) Exists(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := s.inner.Exists(ctx)
	s.observe("exists", start, err)
	return ok, err
}

func (s *instrumentedStore) Close() error {
	return s.inner.Close()
}
