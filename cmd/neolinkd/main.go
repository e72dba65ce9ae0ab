package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"NeoLink/internal/agent"
	"NeoLink/internal/api"
	"NeoLink/internal/config"
	"NeoLink/internal/event"
	"NeoLink/internal/history"
	"NeoLink/internal/intent"
	"NeoLink/internal/knowledge"
	"NeoLink/internal/llm/openrouter"
	"NeoLink/internal/market"
	"NeoLink/internal/observability/alerting"
	"NeoLink/internal/session"
	"NeoLink/internal/web3"
	"NeoLink/internal/web3/ethereum"
	"NeoLink/internal/web3/gasoracle"
	"NeoLink/pkg/logger"
)

// main 是 NeoLink 守护进程的入口。
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("neolinkd 运行失败: %v", err)
	}
}

func run(ctx context.Context) error {
	// .env 缺失不是错误，容器环境通常直接注入环境变量。
	_ = godotenv.Load()

	configPath := os.Getenv("NEOLINK_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("configs", "neolink.json")
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Audit: logger.AuditConfig{
			Enabled: cfg.Logging.AuditPath != "",
			Path:    cfg.Logging.AuditPath,
		},
	}); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := os.MkdirAll(cfg.Runtime.DataDir, 0o755); err != nil {
		return err
	}

	// 意图定义。
	definitions, err := intent.LoadDefinitions(cfg.Intent.DefinitionsPath)
	if err != nil {
		return err
	}
	classifier := intent.NewClassifier(definitions)

	// 会话存储。
	var sessions session.Store
	switch cfg.Session.Driver {
	case "", "memory":
		sessions = session.NewMemoryStore()
	case "redis":
		store, err := session.NewRedisStore(session.RedisConfig{
			Address:  cfg.Session.Redis.Address,
			Password: os.Getenv(cfg.Session.Redis.PasswordEnv),
			DB:       cfg.Session.Redis.DB,
		})
		if err != nil {
			return err
		}
		sessions = store
	default:
		return fmt.Errorf("不支持的会话存储驱动: %s", cfg.Session.Driver)
	}
	defer func() {
		_ = sessions.Close()
	}()

	// 余额后端。
	var balances web3.BalanceProvider
	var chainClient *ethereum.Client
	switch cfg.Providers.Balance.Driver {
	case "", "mock":
		balances = web3.NewMockBalanceProvider()
	case "ethereum":
		chainCfg, err := web3.LoadChainConfig(cfg.Providers.Balance.ChainPath)
		if err != nil {
			return err
		}
		if cfg.Providers.Balance.RPCURL != "" {
			chainCfg.RPCURL = cfg.Providers.Balance.RPCURL
		}
		client, err := ethereum.NewClient(chainCfg)
		if err != nil {
			return err
		}
		chainClient = client
		balances = client
		defer client.Close()
	default:
		return fmt.Errorf("不支持的余额后端: %s", cfg.Providers.Balance.Driver)
	}

	// 行情后端。
	var marketProvider market.Provider
	switch cfg.Providers.Market.Driver {
	case "", "mock":
		marketProvider = market.NewMockProvider()
	case "coingecko":
		marketProvider = market.NewCoinGeckoProvider(market.CoinGeckoConfig{
			BaseURL: cfg.Providers.Market.BaseURL,
			APIKey:  os.Getenv(cfg.Providers.Market.APIKeyEnv),
		})
	default:
		return fmt.Errorf("不支持的行情后端: %s", cfg.Providers.Market.Driver)
	}

	// gas 费率数据源，链上兜底仅在配置了 RPC 时可用。
	var estimator gasoracle.ChainEstimator
	if chainClient != nil {
		estimator = chainClient
	}
	gasProvider := gasoracle.NewOracle(gasoracle.Config{
		URL:    cfg.Providers.Gas.OracleURL,
		APIKey: os.Getenv(cfg.Providers.Gas.APIKeyEnv),
	}, estimator)

	// 知识库。
	cards, err := knowledge.LoadStaticProvider(cfg.Knowledge.CardsPath)
	if err != nil {
		return err
	}

	// 会话记录仓库。
	var repo history.Repository
	switch cfg.History.Driver {
	case "", "file":
		fileRepo, err := history.NewFileRepository(cfg.Runtime.DataDir)
		if err != nil {
			return err
		}
		repo = fileRepo
	case "mysql":
		sqlRepo, err := history.NewMySQLRepository(ctx, history.MySQLConfig{DSN: cfg.History.DSN})
		if err != nil {
			return err
		}
		repo = sqlRepo
	default:
		return fmt.Errorf("不支持的会话记录驱动: %s", cfg.History.Driver)
	}
	defer func() {
		_ = repo.Close()
	}()

	// 消息事件发布。
	var publisher event.Publisher
	switch cfg.Event.Driver {
	case "", "memory":
		publisher = event.NewMemoryPublisher(0)
	case "rabbitmq":
		mq, err := event.NewRabbitMQPublisher(event.RabbitMQConfig{
			URL:     cfg.Event.RabbitMQURL,
			Queue:   cfg.Event.Queue,
			Durable: true,
		})
		if err != nil {
			return err
		}
		publisher = mq
	default:
		return fmt.Errorf("不支持的事件驱动: %s", cfg.Event.Driver)
	}
	defer func() {
		_ = publisher.Close()
	}()

	opts := []agent.Option{
		agent.WithKnowledgeProvider(cards),
		agent.WithHistoryRepository(repo),
		agent.WithEventPublisher(publisher),
		agent.WithAlertDispatcher(alerting.NewFanout(&alerting.LogNotifier{})),
	}
	if cfg.LLM.Enabled {
		llmClient, err := openrouter.NewClient(openrouter.Config{
			APIKey:  os.Getenv(cfg.LLM.APIKeyEnv),
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			return err
		}
		opts = append(opts, agent.WithLLMClient(llmClient))
	}

	ag := agent.New(classifier, sessions, balances, marketProvider, gasProvider, opts...)

	server := api.NewServer(api.Config{
		Addr:            cfg.Server.Address,
		PublicURL:       cfg.Server.PublicURL,
		TwilioAuthToken: os.Getenv(cfg.Server.TwilioAuthTokenEnv),
	}, ag, repo)

	return server.Start(ctx)
}
