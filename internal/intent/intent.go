// Package intent 实现了基于关键词与正则规则的意图识别。
// 分类器是纯函数：给定消息一定返回一个结果，从不失败。
package intent

// 内置意图名称。
const (
	IntentWalletAddress = "wallet_address"
	IntentBalanceCheck  = "balance_check"
	IntentPriceCheck    = "price_check"
	IntentTransfer      = "transfer"
	IntentDeFiInfo      = "defi_info"
	IntentGasFees       = "gas_fees"
	IntentHelp          = "help"
	IntentGreeting      = "greeting"
	IntentThanks        = "thanks"
	IntentGeneral       = "general"
)

// 实体键名。
const (
	EntityToken     = "token"
	EntityAmount    = "amount"
	EntityRecipient = "recipient"
	EntityAddress   = "address"
)

// Definition 描述一个可识别的意图：触发关键词、相关代币别名与说明。
// 注册顺序即打分平局时的优先顺序，加载后不可变。
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Tokens      []string `yaml:"tokens"`
}

// Result 是一次分类的输出：胜出的意图名称与从消息中抽取的实体。
type Result struct {
	Intent   string
	Entities map[string]string
}

// Token 返回抽取到的代币符号，未识别时回退到默认值。
func (r Result) Token(fallback string) string {
	if token, ok := r.Entities[EntityToken]; ok && token != "" {
		return token
	}
	return fallback
}

// tokenSymbols 将代币别名映射为规范符号。
var tokenSymbols = map[string]string{
	"eth":      "ETH",
	"ethereum": "ETH",
	"btc":      "BTC",
	"bitcoin":  "BTC",
	"usdc":     "USDC",
	"usdt":     "USDT",
	"dai":      "DAI",
	"neo":      "NEO",
}

// CanonicalToken 返回别名对应的规范符号；未知别名按大写原样返回。
func CanonicalToken(alias string) string {
	if symbol, ok := tokenSymbols[lower(alias)]; ok {
		return symbol
	}
	return upper(alias)
}

// DefaultDefinitions 返回内置的意图表。
// 顺序是契约的一部分：平局时先注册的意图胜出。
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:        IntentBalanceCheck,
			Description: "Check token balances",
			Keywords: []string{
				"balance", "check", "how much", "amount", "funds", "money",
				"wallet", "account", "holdings", "assets", "portfolio",
				"show me", "tell me", "what do i have", "my tokens",
				"eth balance", "usdc balance", "token balance",
			},
			Tokens: []string{"eth", "ethereum", "usdc", "usdt", "dai", "bitcoin", "btc", "neo"},
		},
		{
			Name:        IntentPriceCheck,
			Description: "Check token prices",
			Keywords: []string{
				"price", "cost", "value", "worth", "rate", "exchange rate",
				"how much is", "current price", "market price", "trading at",
				"quote", "valuation", "market cap", "usd", "dollar",
			},
			Tokens: []string{"eth", "ethereum", "usdc", "usdt", "dai", "bitcoin", "btc", "neo"},
		},
		{
			Name:        IntentTransfer,
			Description: "Token transfer operations",
			Keywords: []string{
				"send", "transfer", "pay", "move", "swap", "exchange",
				"give", "donate", "tip", "remit", "wire", "transmit",
				"forward", "dispatch", "deliver", "convey",
			},
			Tokens: []string{"eth", "ethereum", "usdc", "usdt", "dai", "bitcoin", "btc", "neo"},
		},
		{
			Name:        IntentDeFiInfo,
			Description: "DeFi information and education",
			Keywords: []string{
				"defi", "decentralized finance", "what is", "explain",
				"learn", "understand", "how does", "tell me about",
				"uniswap", "aave", "compound", "makerdao", "curve",
				"yield farming", "liquidity", "staking", "lending",
				"borrowing", "dex", "amm", "smart contract",
			},
		},
		{
			Name:        IntentGasFees,
			Description: "Gas fees and transaction costs",
			Keywords: []string{
				"gas", "fee", "fees", "cost", "expensive", "cheap",
				"transaction cost", "network fee", "gwei", "gas price",
				"how much to send", "transaction fee",
			},
		},
		{
			Name:        IntentHelp,
			Description: "Help and guidance",
			Keywords: []string{
				"help", "start", "commands", "what can you do",
				"how to use", "guide", "tutorial", "instructions",
				"menu", "options", "features",
			},
		},
		{
			Name:        IntentGreeting,
			Description: "Greetings and casual conversation",
			Keywords: []string{
				"hello", "hi", "hey", "good morning", "good afternoon",
				"good evening", "greetings", "howdy", "sup", "yo",
			},
		},
		{
			Name:        IntentThanks,
			Description: "Gratitude and positive feedback",
			Keywords: []string{
				"thank", "thanks", "thx", "appreciate", "grateful",
				"awesome", "great", "perfect", "excellent", "good job",
			},
		},
	}
}
