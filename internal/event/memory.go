package event

import (
	"context"
	"sync"
)

const defaultRingSize = 256

// MemoryPublisher 将事件保留在内存环形缓冲中，用于开发环境
// 和测试，不依赖外部消息队列。
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []MessageEvent
	size   int
}

// NewMemoryPublisher 创建内存事件缓冲。
func NewMemoryPublisher(size int) *MemoryPublisher {
	if size <= 0 {
		size = defaultRingSize
	}
	return &MemoryPublisher{size: size}
}

// Publish 追加事件，超出容量时淘汰最旧的事件。
func (m *MemoryPublisher) Publish(_ context.Context, evt MessageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	if len(m.events) > m.size {
		m.events = m.events[len(m.events)-m.size:]
	}
	return nil
}

// Recent 返回缓冲内事件的副本，最新的排在最后。
func (m *MemoryPublisher) Recent() []MessageEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MessageEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Close 实现 Publisher 接口。
func (m *MemoryPublisher) Close() error { return nil }

var _ Publisher = (*MemoryPublisher)(nil)
