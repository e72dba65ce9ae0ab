package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Config 描述了 NeoLink 在启动阶段需要加载的核心配置。
// 凭据类字段只配置环境变量名，进程启动时再读取真实值。
type Config struct {
	Server    ServerConfig    `json:"server"`
	Session   SessionConfig   `json:"session"`
	Intent    IntentConfig    `json:"intent"`
	Providers ProvidersConfig `json:"providers"`
	LLM       LLMConfig       `json:"llm"`
	Knowledge KnowledgeConfig `json:"knowledge"`
	History   HistoryConfig   `json:"history"`
	Event     EventConfig     `json:"event"`
	Logging   LoggingConfig   `json:"logging"`
	Runtime   RuntimeConfig   `json:"runtime"`
}

// ServerConfig 控制 HTTP 服务的监听地址与 Webhook 校验。
type ServerConfig struct {
	Address            string `json:"address"`
	PublicURL          string `json:"public_url"`
	TwilioAuthTokenEnv string `json:"twilio_auth_token_env"`
}

// SessionConfig 控制会话存储后端。
type SessionConfig struct {
	Driver string             `json:"driver"`
	Redis  RedisSessionConfig `json:"redis"`
}

// RedisSessionConfig 描述 Redis 会话后端的连接信息。
type RedisSessionConfig struct {
	Address     string `json:"address"`
	PasswordEnv string `json:"password_env"`
	DB          int    `json:"db"`
}

// IntentConfig 指定意图定义文件，留空使用内置定义。
type IntentConfig struct {
	DefinitionsPath string `json:"definitions_path"`
}

// ProvidersConfig 汇总余额、行情与 gas 数据源配置。
type ProvidersConfig struct {
	Balance BalanceConfig `json:"balance"`
	Market  MarketConfig  `json:"market"`
	Gas     GasConfig     `json:"gas"`
}

// BalanceConfig 控制余额查询后端。
type BalanceConfig struct {
	Driver    string `json:"driver"`
	ChainPath string `json:"chain_path"`
	RPCURL    string `json:"rpc_url"`
}

// MarketConfig 控制行情后端。
type MarketConfig struct {
	Driver    string `json:"driver"`
	BaseURL   string `json:"base_url"`
	APIKeyEnv string `json:"api_key_env"`
}

// GasConfig 控制 gas 费率数据源。
type GasConfig struct {
	OracleURL string `json:"oracle_url"`
	APIKeyEnv string `json:"api_key_env"`
}

// LLMConfig 用于配置大模型兜底回复。
type LLMConfig struct {
	Enabled   bool   `json:"enabled"`
	APIKeyEnv string `json:"api_key_env"`
	BaseURL   string `json:"base_url"`
	Model     string `json:"model"`
}

// KnowledgeConfig 指定 DeFi 科普卡片文件，留空使用内置内容。
type KnowledgeConfig struct {
	CardsPath string `json:"cards_path"`
}

// HistoryConfig 控制会话记录的存储后端。
type HistoryConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// EventConfig 控制消息事件的投递方式。
type EventConfig struct {
	Driver      string `json:"driver"`
	RabbitMQURL string `json:"rabbitmq_url"`
	Queue       string `json:"queue"`
}

// LoggingConfig 控制结构化日志输出。
type LoggingConfig struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	AuditPath string `json:"audit_path"`
}

// RuntimeConfig 用于放置运行时的通用参数。
type RuntimeConfig struct {
	DataDir string `json:"data_dir"`
}

// Load 负责解析指定路径的 JSON 配置文件。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("配置文件路径为空")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开配置文件失败: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults(filepath.Dir(path))

	return &cfg, nil
}

// Default 返回一份可直接运行的默认配置，全部使用本地后端。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults(".")
	return cfg
}

// applyDefaults 在用户未填写部分字段时设置合理的默认值。
func (c *Config) applyDefaults(baseDir string) {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.TwilioAuthTokenEnv == "" {
		c.Server.TwilioAuthTokenEnv = "TWILIO_AUTH_TOKEN"
	}

	if c.Session.Driver == "" {
		c.Session.Driver = "memory"
	}

	if c.Providers.Balance.Driver == "" {
		c.Providers.Balance.Driver = "mock"
	}
	if c.Providers.Market.Driver == "" {
		c.Providers.Market.Driver = "mock"
	}
	if c.Providers.Market.APIKeyEnv == "" {
		c.Providers.Market.APIKeyEnv = "COINGECKO_API_KEY"
	}
	if c.Providers.Gas.APIKeyEnv == "" {
		c.Providers.Gas.APIKeyEnv = "ETHERSCAN_API_KEY"
	}

	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = "OPENROUTER_API_KEY"
	}

	if c.History.Driver == "" {
		c.History.Driver = "file"
	}

	if c.Event.Driver == "" {
		c.Event.Driver = "memory"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.Runtime.DataDir == "" {
		c.Runtime.DataDir = filepath.Join(baseDir, "data")
	} else if !filepath.IsAbs(c.Runtime.DataDir) {
		c.Runtime.DataDir = filepath.Join(baseDir, c.Runtime.DataDir)
	}
}
