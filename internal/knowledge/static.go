package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider 定义 DeFi 科普内容检索的通用接口。
type Provider interface {
	Lookup(query string) Card
}

// Card 描述一段可直接回复给用户的科普内容。
// Keywords 为空的卡片作为兜底内容。
type Card struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// StaticProvider 按注册顺序对关键词做子串匹配，命中即返回。
type StaticProvider struct {
	cards []Card
}

// NewStaticProvider 创建静态知识库实例。
func NewStaticProvider(cards []Card) *StaticProvider {
	if len(cards) == 0 {
		cards = DefaultCards()
	}
	return &StaticProvider{cards: cards}
}

// LoadStaticProvider 从 JSON 文件加载知识卡片，路径为空时使用内置内容。
func LoadStaticProvider(path string) (*StaticProvider, error) {
	if strings.TrimSpace(path) == "" {
		return NewStaticProvider(nil), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析知识库路径失败: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("读取知识库文件失败: %w", err)
	}
	defer file.Close()

	var cards []Card
	if err := json.NewDecoder(file).Decode(&cards); err != nil {
		return nil, fmt.Errorf("解析知识库文件失败: %w", err)
	}

	return NewStaticProvider(cards), nil
}

// Lookup 返回第一张关键词命中的卡片，全部未命中时返回兜底卡片。
func (p *StaticProvider) Lookup(query string) Card {
	query = strings.ToLower(strings.TrimSpace(query))

	var fallback Card
	for _, card := range p.cards {
		if len(card.Keywords) == 0 {
			if fallback.Content == "" {
				fallback = card
			}
			continue
		}
		for _, keyword := range card.Keywords {
			normalized := strings.ToLower(strings.TrimSpace(keyword))
			if normalized == "" {
				continue
			}
			if strings.Contains(query, normalized) {
				return card
			}
		}
	}
	return fallback
}

var _ Provider = (*StaticProvider)(nil)
