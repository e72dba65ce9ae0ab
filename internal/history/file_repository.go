package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const maxCachedRecords = 512

// FileRepository 使用本地 JSONL 文件保存会话记录，方便在没有
// MySQL 的环境下迭代开发。内存中保留最近的记录用于查询。
type FileRepository struct {
	mu       sync.RWMutex
	dataFile string
	records  []Record
}

// NewFileRepository 创建文件仓库并恢复历史数据。
func NewFileRepository(dataDir string) (*FileRepository, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	path := filepath.Join(dataDir, "conversations.log")
	repo := &FileRepository{dataFile: path}
	if err := repo.loadFromDisk(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Save 以追加写的方式记录会话。
func (f *FileRepository) Save(_ context.Context, record Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.dataFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开会话日志失败: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化会话记录失败: %w", err)
	}
	if _, err := file.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("写入会话日志失败: %w", err)
	}

	f.records = append([]Record{record}, f.records...)
	if len(f.records) > maxCachedRecords {
		f.records = f.records[:maxCachedRecords]
	}
	return nil
}

// ListRecent 返回某个用户最近的会话记录，按时间倒序排列。
// userKey 为空时返回全部用户的记录。
func (f *FileRepository) ListRecent(_ context.Context, userKey string, limit int) ([]Record, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	results := make([]Record, 0, limit)
	for _, record := range f.records {
		if userKey != "" && record.UserKey != userKey {
			continue
		}
		results = append(results, record)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Close 实现 Repository 接口，文件仓库没有需要释放的资源。
func (f *FileRepository) Close() error { return nil }

func (f *FileRepository) loadFromDisk() error {
	file, err := os.OpenFile(f.dataFile, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("读取会话日志失败: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var restored []Record
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue
		}
		restored = append([]Record{record}, restored...)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("解析会话日志失败: %w", err)
	}

	if len(restored) > maxCachedRecords {
		restored = restored[:maxCachedRecords]
	}
	if len(restored) > 0 {
		f.records = restored
	}
	return nil
}

var _ Repository = (*FileRepository)(nil)
