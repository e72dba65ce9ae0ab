package agent

import (
	"context"
	"log/slog"
	"time"

	xerrors "NeoLink/internal/errors"
	"NeoLink/internal/event"
	"NeoLink/internal/history"
	"NeoLink/internal/intent"
	"NeoLink/internal/knowledge"
	"NeoLink/internal/llm"
	"NeoLink/internal/market"
	"NeoLink/internal/observability/alerting"
	"NeoLink/internal/observability/metrics"
	"NeoLink/internal/session"
	"NeoLink/internal/web3"
	"NeoLink/pkg/logger"
)

// defaultLLMTimeout 是调用大模型兜底回复的默认超时时间。
const defaultLLMTimeout = 10 * time.Second

// Agent 协调意图识别、会话状态与各数据提供方，是系统的业务核心。
// HandleMessage 对外保证总是返回一条可发送的回复。
type Agent struct {
	classifier *intent.Classifier
	sessions   session.Store
	balances   web3.BalanceProvider
	market     market.Provider
	gas        web3.GasProvider

	llmClient  llm.Client
	knowledge  knowledge.Provider
	repository history.Repository
	events     event.Publisher
	alerts     alerting.Dispatcher
	llmTimeout time.Duration
}

// Option 定义可选的 Agent 配置。
type Option func(*Agent)

// WithLLMClient 配置大模型客户端，处理未命中任何意图的消息。
func WithLLMClient(client llm.Client) Option {
	return func(a *Agent) {
		a.llmClient = client
	}
}

// WithKnowledgeProvider 配置 DeFi 科普知识库。
func WithKnowledgeProvider(provider knowledge.Provider) Option {
	return func(a *Agent) {
		a.knowledge = provider
	}
}

// WithHistoryRepository 配置会话记录仓库。
func WithHistoryRepository(repo history.Repository) Option {
	return func(a *Agent) {
		a.repository = repo
	}
}

// WithEventPublisher 配置消息事件发布器。
func WithEventPublisher(publisher event.Publisher) Option {
	return func(a *Agent) {
		a.events = publisher
	}
}

// WithAlertDispatcher 配置告警分发器。
func WithAlertDispatcher(dispatcher alerting.Dispatcher) Option {
	return func(a *Agent) {
		a.alerts = dispatcher
	}
}

// WithLLMTimeout 设置调用大模型的超时时间。
func WithLLMTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		if timeout > 0 {
			a.llmTimeout = timeout
		}
	}
}

// New 创建一个 Agent。
func New(classifier *intent.Classifier, sessions session.Store, balances web3.BalanceProvider, marketProvider market.Provider, gas web3.GasProvider, opts ...Option) *Agent {
	ag := &Agent{
		classifier: classifier,
		sessions:   sessions,
		balances:   balances,
		market:     marketProvider,
		gas:        gas,
		knowledge:  knowledge.NewStaticProvider(nil),
		llmTimeout: defaultLLMTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ag)
		}
	}
	return ag
}

// HandleMessage 处理一条入站消息并返回回复文本。
// 任何内部错误都会被降级为面向用户的提示，不向调用方抛出。
func (a *Agent) HandleMessage(ctx context.Context, userKey, body string) string {
	start := time.Now()

	result := a.classifier.Classify(body)
	reply := a.dispatch(ctx, userKey, body, result)

	latency := time.Since(start)
	metrics.ObserveMessage(string(result.Intent), latency)

	logger.Audit().Info("message handled",
		slog.String("user_key", userKey),
		slog.String("intent", string(result.Intent)),
		slog.String("body", body),
		slog.Int("reply_len", len(reply)),
		slog.Duration("latency", latency),
	)

	if a.repository != nil {
		record := history.NewRecord(userKey, body, string(result.Intent), reply)
		if err := a.repository.Save(ctx, record); err != nil {
			logger.L().Error("保存会话记录失败", slog.String("user_key", userKey), slog.Any("error", err))
		}
	}
	if a.events != nil {
		evt := event.MessageEvent{
			UserKey:   userKey,
			Intent:    string(result.Intent),
			Body:      body,
			Reply:     reply,
			LatencyMS: latency.Milliseconds(),
			Timestamp: time.Now().Unix(),
		}
		if err := a.events.Publish(ctx, evt); err != nil {
			logger.L().Warn("发布消息事件失败", slog.Any("error", err))
		}
	}

	return reply
}

// dispatch 按意图路由到对应的处理函数。
func (a *Agent) dispatch(ctx context.Context, userKey, body string, result intent.Result) string {
	switch result.Intent {
	case intent.IntentWalletAddress:
		return a.handleWalletSave(ctx, userKey, result.Entities[intent.EntityAddress])
	case intent.IntentBalanceCheck:
		return a.handleBalance(ctx, userKey, result.Entities[intent.EntityToken])
	case intent.IntentPriceCheck:
		return a.handlePrice(ctx, userKey, result.Entities[intent.EntityToken])
	case intent.IntentTransfer:
		return a.handleTransfer(ctx, userKey, result.Entities)
	case intent.IntentGasFees:
		return a.handleGas(ctx, userKey)
	case intent.IntentDeFiInfo:
		return a.knowledge.Lookup(body).Content
	case intent.IntentHelp:
		return a.handleHelp(ctx, userKey)
	case intent.IntentGreeting:
		return a.handleGreeting(ctx, userKey)
	case intent.IntentThanks:
		return thanksReply
	default:
		return a.handleGeneral(ctx, userKey, body)
	}
}

// reportProviderError 统计并在必要时告警一次上游调用失败。
func (a *Agent) reportProviderError(ctx context.Context, provider, userKey, intentName string, err error) {
	metrics.ObserveProviderError(provider)
	logger.L().Error("上游调用失败",
		slog.String("provider", provider),
		slog.String("user_key", userKey),
		slog.Any("error", err),
	)
	if a.alerts != nil && xerrors.ShouldAlert(err) {
		if notifyErr := a.alerts.Notify(ctx, alerting.FromError(err, userKey, intentName)); notifyErr != nil {
			logger.L().Warn("发送告警失败", slog.Any("error", notifyErr))
		}
	}
}
