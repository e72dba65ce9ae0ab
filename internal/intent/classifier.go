package intent

import (
	"regexp"
	"strings"
)

var (
	// 全串匹配时视为用户直接发送了钱包地址。
	fullAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	// 消息中嵌入的地址被视为转账收款方。
	embeddedAddressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
	// 第一个十进制数字串被视为金额。
	amountPattern = regexp.MustCompile(`\d+\.?\d*`)
)

// Classifier 依据静态意图表对消息打分并抽取实体。
type Classifier struct {
	definitions []Definition
}

// NewClassifier 创建分类器。定义顺序决定平局时的优先级。
func NewClassifier(definitions []Definition) *Classifier {
	if len(definitions) == 0 {
		definitions = DefaultDefinitions()
	}
	return &Classifier{definitions: definitions}
}

// Definitions 返回注册的意图表副本。
func (c *Classifier) Definitions() []Definition {
	out := make([]Definition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// Classify 对一条消息进行意图识别。保证返回结果，从不失败：
// 没有任何关键词命中时回退到 general。
func (c *Classifier) Classify(message string) Result {
	trimmed := strings.TrimSpace(message)

	// 钱包地址具有最高优先级：整条消息就是一个地址时直接短路，
	// 不再参与关键词打分。
	if fullAddressPattern.MatchString(trimmed) {
		return Result{
			Intent:   IntentWalletAddress,
			Entities: map[string]string{EntityAddress: trimmed},
		}
	}

	normalized := strings.ToLower(trimmed)
	entities := make(map[string]string)

	bestIntent := ""
	bestScore := 0
	for _, def := range c.definitions {
		score := 0
		for _, keyword := range def.Keywords {
			if keyword != "" && strings.Contains(normalized, keyword) {
				score++
			}
		}
		// 代币别名权重更高：它们能区分余额与价格类意图。
		for _, alias := range def.Tokens {
			if alias != "" && strings.Contains(normalized, alias) {
				score += 2
				entities[EntityToken] = CanonicalToken(alias)
			}
		}
		if score > bestScore {
			bestScore = score
			bestIntent = def.Name
		}
	}

	// 实体抽取针对原始消息进行，与意图得分无关。
	if amount := amountPattern.FindString(trimmed); amount != "" {
		entities[EntityAmount] = amount
	}
	if recipient := embeddedAddressPattern.FindString(trimmed); recipient != "" {
		entities[EntityRecipient] = recipient
	}

	if bestScore == 0 {
		return Result{Intent: IntentGeneral, Entities: entities}
	}
	return Result{Intent: bestIntent, Entities: entities}
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
