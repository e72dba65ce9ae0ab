// Package market 提供代币行情查询能力。行情是瞬态数据：
// 每次请求都重新获取，不做缓存。
package market

import (
	"context"
	"strings"

	xerrors "NeoLink/internal/errors"
)

// Quote 描述一个代币的实时行情。
type Quote struct {
	Symbol       string
	PriceUSD     float64
	Change24h    float64
	MarketCapUSD float64
	HomeChain    bool
}

// Provider 定义行情后端的统一接口。
type Provider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// ErrUnknownToken 表示代币符号不在别名表中。
var ErrUnknownToken = xerrors.New(xerrors.CodeUnknownToken, "")

// Coin 是别名表的目标条目：行情 API 的规范 coin id 与符号。
// HomeChain 标记 NEO 生态的代币，回复中会附带生态提示。
type Coin struct {
	ID        string
	Symbol    string
	HomeChain bool
}

// coinAliases 将常见的符号与名称变体映射到规范 coin id。
var coinAliases = map[string]Coin{
	// 以太坊生态
	"eth":      {ID: "ethereum", Symbol: "ETH"},
	"ethereum": {ID: "ethereum", Symbol: "ETH"},
	"ether":    {ID: "ethereum", Symbol: "ETH"},
	"weth":     {ID: "weth", Symbol: "WETH"},

	// 比特币
	"btc":     {ID: "bitcoin", Symbol: "BTC"},
	"bitcoin": {ID: "bitcoin", Symbol: "BTC"},
	"xbt":     {ID: "bitcoin", Symbol: "BTC"},
	"wbtc":    {ID: "wrapped-bitcoin", Symbol: "WBTC"},

	// 稳定币
	"usdc":     {ID: "usd-coin", Symbol: "USDC"},
	"usd coin": {ID: "usd-coin", Symbol: "USDC"},
	"usdt":     {ID: "tether", Symbol: "USDT"},
	"tether":   {ID: "tether", Symbol: "USDT"},
	"dai":      {ID: "dai", Symbol: "DAI"},
	"busd":     {ID: "binance-usd", Symbol: "BUSD"},

	// NEO 生态（本链代币）
	"neo":       {ID: "neo", Symbol: "NEO", HomeChain: true},
	"neo token": {ID: "neo", Symbol: "NEO", HomeChain: true},
	"gas":       {ID: "gas", Symbol: "GAS", HomeChain: true},
	"neogas":    {ID: "gas", Symbol: "GAS", HomeChain: true},
	"flm":       {ID: "flamingo-finance", Symbol: "FLM", HomeChain: true},
	"flamingo":  {ID: "flamingo-finance", Symbol: "FLM", HomeChain: true},
	"bneo":      {ID: "burgerneo", Symbol: "bNEO", HomeChain: true},

	// 主流 DeFi / L1 资产
	"link":      {ID: "chainlink", Symbol: "LINK"},
	"chainlink": {ID: "chainlink", Symbol: "LINK"},
	"uni":       {ID: "uniswap", Symbol: "UNI"},
	"uniswap":   {ID: "uniswap", Symbol: "UNI"},
	"aave":      {ID: "aave", Symbol: "AAVE"},
	"mkr":       {ID: "maker", Symbol: "MKR"},
	"maker":     {ID: "maker", Symbol: "MKR"},
	"crv":       {ID: "curve-dao-token", Symbol: "CRV"},
	"curve":     {ID: "curve-dao-token", Symbol: "CRV"},
	"comp":      {ID: "compound-governance-token", Symbol: "COMP"},
	"compound":  {ID: "compound-governance-token", Symbol: "COMP"},
	"matic":     {ID: "matic-network", Symbol: "MATIC"},
	"polygon":   {ID: "matic-network", Symbol: "MATIC"},
	"sol":       {ID: "solana", Symbol: "SOL"},
	"solana":    {ID: "solana", Symbol: "SOL"},
	"bnb":       {ID: "binancecoin", Symbol: "BNB"},
	"arb":       {ID: "arbitrum", Symbol: "ARB"},
	"arbitrum":  {ID: "arbitrum", Symbol: "ARB"},
	"op":        {ID: "optimism", Symbol: "OP"},
	"optimism":  {ID: "optimism", Symbol: "OP"},
	"ltc":       {ID: "litecoin", Symbol: "LTC"},
	"litecoin":  {ID: "litecoin", Symbol: "LTC"},
	"doge":      {ID: "dogecoin", Symbol: "DOGE"},
	"dogecoin":  {ID: "dogecoin", Symbol: "DOGE"},
}

// Resolve 将符号或名称变体解析为规范 coin 条目。
func Resolve(symbolOrName string) (Coin, bool) {
	coin, ok := coinAliases[strings.ToLower(strings.TrimSpace(symbolOrName))]
	return coin, ok
}
