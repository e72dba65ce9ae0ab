package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	xerrors "NeoLink/internal/errors"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	defaultTimeout = 10 * time.Second
)

// CoinGeckoConfig 描述调用 CoinGecko simple/price 接口所需的信息。
// APIKey 可以为空：免费额度不需要鉴权。
type CoinGeckoConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CoinGeckoProvider 通过 HTTP 调用公开行情 API。
type CoinGeckoProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCoinGeckoProvider 根据配置创建行情客户端。
func NewCoinGeckoProvider(cfg CoinGeckoConfig) *CoinGeckoProvider {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CoinGeckoProvider{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Quote 查询一个代币的实时行情。
func (p *CoinGeckoProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	coin, ok := Resolve(symbol)
	if !ok {
		return nil, xerrors.New(xerrors.CodeUnknownToken, fmt.Sprintf("未收录的代币: %s", symbol))
	}

	query := url.Values{}
	query.Set("ids", coin.ID)
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	query.Set("include_market_cap", "true")
	endpoint := p.baseURL + "/simple/price?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "构建行情请求失败")
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "请求行情 API 失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, xerrors.New(xerrors.CodeProviderUnavailable,
			fmt.Sprintf("行情 API 返回状态 %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var decoded map[string]struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
		USDMarketCap float64 `json:"usd_market_cap"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "解析行情响应失败")
	}

	data, ok := decoded[coin.ID]
	if !ok {
		return nil, xerrors.New(xerrors.CodeProviderUnavailable, fmt.Sprintf("行情响应缺少 %s", coin.ID))
	}

	return &Quote{
		Symbol:       coin.Symbol,
		PriceUSD:     data.USD,
		Change24h:    data.USD24hChange,
		MarketCapUSD: data.USDMarketCap,
		HomeChain:    coin.HomeChain,
	}, nil
}

var _ Provider = (*CoinGeckoProvider)(nil)
