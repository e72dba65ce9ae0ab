package intent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// definitionsFile 对应 configs/intents.yaml 的结构。
type definitionsFile struct {
	Intents []Definition `yaml:"intents"`
}

// LoadDefinitions 从 YAML 文件加载意图表，文件中的顺序即注册顺序。
// 路径为空时返回内置默认表。
func LoadDefinitions(path string) ([]Definition, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultDefinitions(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取意图配置失败: %w", err)
	}

	var file definitionsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("解析意图配置失败: %w", err)
	}
	if len(file.Intents) == 0 {
		return DefaultDefinitions(), nil
	}

	for i, def := range file.Intents {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("意图配置第 %d 项缺少 name", i+1)
		}
	}
	return file.Intents, nil
}
