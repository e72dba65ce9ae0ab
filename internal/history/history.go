// Package history 负责会话消息的落库与回溯查询。
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record 表示一次入站消息及其回复的落库结构。
type Record struct {
	ID        string `json:"id"`
	UserKey   string `json:"user_key"`
	Body      string `json:"body"`
	Intent    string `json:"intent"`
	Reply     string `json:"reply"`
	CreatedAt int64  `json:"created_at"`
}

// NewRecord 创建一条带 ID 与时间戳的记录。
func NewRecord(userKey, body, intent, reply string) Record {
	return Record{
		ID:        uuid.NewString(),
		UserKey:   userKey,
		Body:      body,
		Intent:    intent,
		Reply:     reply,
		CreatedAt: time.Now().Unix(),
	}
}

// Repository 抽象会话记录的持久化接口。
type Repository interface {
	Save(ctx context.Context, record Record) error
	ListRecent(ctx context.Context, userKey string, limit int) ([]Record, error)
	Close() error
}
