package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/houzhh15/weekly-report/cmd/server/internal/models"
)

// SQLiteStore 将草稿保存在 SQLite 键值表中
type SQLiteStore struct {
	db       *sql.DB
	maxBytes int
}

// NewSQLiteStore 打开数据库并建表
func NewSQLiteStore(path string, maxBytes int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, maxBytes: maxBytes}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

// Save 整体替换草稿
func (s *SQLiteStore) Save(ctx context.Context, week models.WeekData) error {
	data, err := encode(week, s.maxBytes)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		StorageKey, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Load 读取草稿
func (s *SQLiteStore) Load(ctx context.Context) (models.WeekData, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM drafts WHERE key = ?`, StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return decode([]byte(value))
}

// Exists 是否已保存草稿
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM drafts WHERE key = ?`, StorageKey).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check draft: %w", err)
	}
	return n > 0, nil
}

// Close 关闭数据库
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
