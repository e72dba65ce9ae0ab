// Package event 将每条处理完成的消息作为事件对外广播，
// 供下游的分析或告警系统消费。
package event

import "context"

// MessageEvent 描述一次消息处理的结果。
type MessageEvent struct {
	UserKey   string `json:"user_key"`
	Intent    string `json:"intent"`
	Body      string `json:"body"`
	Reply     string `json:"reply"`
	LatencyMS int64  `json:"latency_ms"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher 定义事件投递的统一接口。
type Publisher interface {
	Publish(ctx context.Context, evt MessageEvent) error
	Close() error
}
