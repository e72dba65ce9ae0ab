package history

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"NeoLink/deploy/migrations"
)

// MySQLConfig 控制 MySQL 连接池参数。
type MySQLConfig struct {
	DSN             string        `json:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// MySQLRepository 使用真实的 MySQL 数据库存储会话记录。
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository 创建连接池并初始化数据表。
func NewMySQLRepository(ctx context.Context, cfg MySQLConfig) (*MySQLRepository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("MySQL DSN 不能为空")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("连接 MySQL 失败: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(5)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法连接到 MySQL: %w", err)
	}

	repo := &MySQLRepository{db: db}
	if err := repo.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// initSchema 按文件名顺序执行 deploy/migrations 下的迁移脚本。
// 每个文件只包含一条语句。
func (s *MySQLRepository) initSchema(ctx context.Context) error {
	entries, err := migrations.Files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("读取迁移目录失败: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := migrations.Files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("读取迁移文件 %s 失败: %w", name, err)
		}
		sql := strings.TrimSuffix(strings.TrimSpace(string(stmt)), ";")
		if sql == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, sql); err != nil {
			return fmt.Errorf("执行迁移 %s 失败: %w", name, err)
		}
	}
	return nil
}

// Save 将会话记录写入 MySQL。
func (s *MySQLRepository) Save(ctx context.Context, record Record) error {
	const stmt = `INSERT INTO conversations
        (id, user_key, body, intent, reply, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		record.UserKey,
		record.Body,
		record.Intent,
		record.Reply,
		record.CreatedAt,
	); err != nil {
		return fmt.Errorf("写入 MySQL 失败: %w", err)
	}
	return nil
}

// ListRecent 查询某个用户最近的若干条会话记录。
func (s *MySQLRepository) ListRecent(ctx context.Context, userKey string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, user_key, body, intent, reply, created_at
        FROM conversations ORDER BY created_at DESC, id DESC LIMIT ?`
	args := []any{limit}
	if userKey != "" {
		query = `SELECT id, user_key, body, intent, reply, created_at
        FROM conversations WHERE user_key = ? ORDER BY created_at DESC, id DESC LIMIT ?`
		args = []any{userKey, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询会话记录失败: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID,
			&record.UserKey,
			&record.Body,
			&record.Intent,
			&record.Reply,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("解析会话记录失败: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历会话记录失败: %w", err)
	}
	return records, nil
}

// Close 释放数据库连接池。
func (s *MySQLRepository) Close() error {
	return s.db.Close()
}

var _ Repository = (*MySQLRepository)(nil)
