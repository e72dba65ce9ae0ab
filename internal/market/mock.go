package market

import (
	"context"
	"fmt"

	xerrors "NeoLink/internal/errors"
)

// MockProvider 返回内置行情，用于演示与离线测试。
type MockProvider struct {
	quotes map[string]Quote
}

// NewMockProvider 创建带默认行情表的 Mock 后端。
func NewMockProvider() *MockProvider {
	return &MockProvider{
		quotes: map[string]Quote{
			"ETH":  {Symbol: "ETH", PriceUSD: 2420.85, Change24h: 2.4, MarketCapUSD: 291_000_000_000},
			"BTC":  {Symbol: "BTC", PriceUSD: 62340.12, Change24h: 1.8, MarketCapUSD: 1_230_000_000_000},
			"USDC": {Symbol: "USDC", PriceUSD: 1.00, Change24h: 0.0, MarketCapUSD: 33_000_000_000},
			"USDT": {Symbol: "USDT", PriceUSD: 1.00, Change24h: -0.1, MarketCapUSD: 112_000_000_000},
			"DAI":  {Symbol: "DAI", PriceUSD: 1.00, Change24h: 0.1, MarketCapUSD: 5_300_000_000},
			"NEO":  {Symbol: "NEO", PriceUSD: 11.42, Change24h: 3.1, MarketCapUSD: 805_000_000, HomeChain: true},
			"GAS":  {Symbol: "GAS", PriceUSD: 3.87, Change24h: -0.6, MarketCapUSD: 250_000_000, HomeChain: true},
		},
	}
}

// Quote 实现 Provider 接口。
func (p *MockProvider) Quote(_ context.Context, symbol string) (*Quote, error) {
	coin, ok := Resolve(symbol)
	if !ok {
		return nil, xerrors.New(xerrors.CodeUnknownToken, fmt.Sprintf("未收录的代币: %s", symbol))
	}
	quote, ok := p.quotes[coin.Symbol]
	if !ok {
		return nil, xerrors.New(xerrors.CodeUnknownToken, fmt.Sprintf("缺少 %s 的模拟行情", coin.Symbol))
	}
	clone := quote
	return &clone, nil
}

var _ Provider = (*MockProvider)(nil)
