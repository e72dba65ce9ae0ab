package agent

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	xerrors "NeoLink/internal/errors"
	"NeoLink/internal/format"
	"NeoLink/internal/intent"
	"NeoLink/internal/llm"
	"NeoLink/internal/market"
	"NeoLink/internal/session"
)

const walletSavedReply = "✅ Wallet address saved successfully!\n\n" +
	"🎯 You can now:\n" +
	"• Check balances: 'my ETH balance'\n" +
	"• Ask prices: 'ETH price'\n" +
	"• Learn DeFi: 'what is yield farming'\n" +
	"• Get help: 'help'"

const noWalletBalanceReply = "💳 I don't have your wallet address yet!\n\n" +
	"Please send me your Ethereum wallet address (starts with 0x) to check balances.\n\n" +
	"🔒 *Your address is stored securely and never shared*"

const noWalletTransferReply = "💳 I don't have your wallet address yet!\n\n" +
	"Please send me your Ethereum wallet address (starts with 0x) to help with transfers.\n\n" +
	"🔒 *I only help prepare transfers - you execute them safely in your wallet*"

const thanksReply = "😊 You're welcome! Happy to help with your DeFi journey!\n\n" +
	"💡 Feel free to ask me anything about crypto, DeFi, or your wallet anytime! 🚀"

const errorReply = "❌ Sorry, I encountered an error. Please try again or type 'help' for assistance."

const fallbackReply = "🤔 I'm not sure how to help with that yet.\n\nType 'help' to see what I can do!"

// llmSystemPrompt 约束兜底回复的风格与安全边界。
const llmSystemPrompt = "You are a helpful DeFi assistant for WhatsApp. You provide concise, " +
	"friendly responses about cryptocurrency and decentralized finance.\n\n" +
	"Guidelines:\n" +
	"- Keep responses under 200 words for WhatsApp\n" +
	"- Use emojis to make responses engaging\n" +
	"- Focus on education and safety\n" +
	"- Never ask for private keys or sensitive information\n" +
	"- Provide practical, actionable advice\n" +
	"- If you don't know something, say so honestly"

// handleWalletSave 保存用户的钱包地址。
func (a *Agent) handleWalletSave(ctx context.Context, userKey, address string) string {
	if _, err := a.sessions.SaveWallet(ctx, userKey, address); err != nil {
		if stdErrors.Is(err, session.ErrInvalidAddress) {
			return "❌ That doesn't look like a valid Ethereum address.\n\nAddresses start with 0x followed by 40 characters."
		}
		a.reportProviderError(ctx, "session", userKey, string(intent.IntentWalletAddress), err)
		return "❌ Error saving wallet address. Please try again in a moment."
	}
	return walletSavedReply
}

// handleBalance 查询已保存钱包的代币余额。
func (a *Agent) handleBalance(ctx context.Context, userKey, token string) string {
	sess, ok, err := a.sessions.Get(ctx, userKey)
	if err != nil {
		a.reportProviderError(ctx, "session", userKey, string(intent.IntentBalanceCheck), err)
		return errorReply
	}
	if !ok || sess.WalletAddress == "" {
		return noWalletBalanceReply
	}

	if token == "" {
		token = "ETH"
	}
	balance, err := a.balances.Balance(ctx, sess.WalletAddress, token)
	if err != nil {
		a.reportProviderError(ctx, "balance", userKey, string(intent.IntentBalanceCheck), err)
		return fmt.Sprintf("❌ Sorry, I couldn't fetch your %s balance right now. Please try again in a moment.", token)
	}

	reply := fmt.Sprintf("💰 *%s Balance*\n\n🔹 Amount: %s %s", token, format.Amount(balance), token)
	if quote, quoteErr := a.market.Quote(ctx, token); quoteErr == nil {
		reply += fmt.Sprintf("\n🔹 Value: ~%s", format.USD(balance*quote.PriceUSD))
	}
	reply += fmt.Sprintf("\n🔹 Wallet: %s", format.ShortAddress(sess.WalletAddress))
	return reply
}

// handlePrice 查询代币行情。
func (a *Agent) handlePrice(ctx context.Context, userKey, token string) string {
	if token == "" {
		token = "ETH"
	}
	quote, err := a.market.Quote(ctx, token)
	if err != nil {
		if stdErrors.Is(err, market.ErrUnknownToken) {
			return fmt.Sprintf("❌ Price data not available for %s. Try ETH, BTC, USDC, USDT, or DAI.", token)
		}
		a.reportProviderError(ctx, "market", userKey, string(intent.IntentPriceCheck), err)
		return fmt.Sprintf("❌ Sorry, I couldn't fetch the %s price right now. Please try again in a moment.", token)
	}

	reply := fmt.Sprintf("%s *%s Price*\n\n💵 Current: %s\n📊 24h Change: %s",
		format.ChangeGlyph(quote.Change24h), quote.Symbol, format.USD(quote.PriceUSD), format.Change(quote.Change24h))
	if quote.MarketCapUSD > 0 {
		reply += fmt.Sprintf("\n🏦 Market Cap: %s", format.USD(quote.MarketCapUSD))
	}
	if quote.HomeChain {
		reply += fmt.Sprintf("\n\n🌱 %s is part of the NEO ecosystem.", quote.Symbol)
	}
	reply += "\n\n⏰ *Live market data*"
	return reply
}

// handleTransfer 生成转账预检信息，不执行任何链上操作。
func (a *Agent) handleTransfer(ctx context.Context, userKey string, entities map[string]string) string {
	sess, ok, err := a.sessions.Get(ctx, userKey)
	if err != nil {
		a.reportProviderError(ctx, "session", userKey, string(intent.IntentTransfer), err)
		return errorReply
	}
	if !ok || sess.WalletAddress == "" {
		return noWalletTransferReply
	}

	token := entities[intent.EntityToken]
	if token == "" {
		token = "ETH"
	}
	amount := entities[intent.EntityAmount]
	if amount == "" {
		amount = "unspecified"
	}
	recipient := "Please specify recipient"
	if r := entities[intent.EntityRecipient]; r != "" {
		recipient = format.ShortAddress(r)
	}

	var builder strings.Builder
	builder.WriteString("📤 *Transfer Preparation*\n\n")
	fmt.Fprintf(&builder, "🔹 From: %s\n", format.ShortAddress(sess.WalletAddress))
	fmt.Fprintf(&builder, "🔹 To: %s\n", recipient)
	fmt.Fprintf(&builder, "🔹 Amount: %s %s\n", amount, token)
	if tiers, gasErr := a.gas.GasTiers(ctx); gasErr == nil {
		fmt.Fprintf(&builder, "🔹 Network fee: ~%d Gwei (standard)\n", tiers.Standard)
	}
	builder.WriteString("\n⚠️ *Security Note:* I only help prepare transfers. Always:\n")
	builder.WriteString("• Double-check recipient address\n")
	builder.WriteString("• Verify amount before confirming\n")
	builder.WriteString("• Execute in your secure wallet app\n")
	builder.WriteString("• Start with small test amounts\n\n")
	builder.WriteString("💡 Need help with the recipient address or amount?")
	return builder.String()
}

// handleGas 返回当前网络手续费档位。
func (a *Agent) handleGas(ctx context.Context, userKey string) string {
	tiers, err := a.gas.GasTiers(ctx)
	if err != nil {
		a.reportProviderError(ctx, "gas", userKey, string(intent.IntentGasFees), err)
		return "❌ Sorry, I couldn't fetch gas prices right now. Please try again in a moment."
	}

	return fmt.Sprintf("⛽ *Current Gas Fees*\n\n"+
		"🔹 Safe: ~%d Gwei\n"+
		"🔹 Standard: ~%d Gwei\n"+
		"🔹 Fast: ~%d Gwei\n\n"+
		"💡 *Tips:*\n"+
		"• Use safe for non-urgent transactions\n"+
		"• Check gas tracker websites for best times\n"+
		"• Consider Layer 2 solutions for cheaper fees\n\n"+
		"⏰ *Fees update every few minutes*",
		tiers.Safe, tiers.Standard, tiers.Fast)
}

// handleHelp 返回帮助信息，附带钱包绑定状态。
func (a *Agent) handleHelp(ctx context.Context, userKey string) string {
	walletStatus := "❌ Not connected"
	if sess, ok, err := a.sessions.Get(ctx, userKey); err == nil && ok && sess.WalletAddress != "" {
		walletStatus = "✅ Connected"
	}

	return fmt.Sprintf("🤖 *DeFi Assistant Help*\n\n"+
		"*Wallet Status:* %s\n\n"+
		"*🎯 What I can do:*\n"+
		"• 💰 Check token balances\n"+
		"• 📈 Get token prices\n"+
		"• 📤 Prepare transfers\n"+
		"• ⛽ Show gas fees\n"+
		"• 🎓 Explain DeFi concepts\n"+
		"• 💡 Answer crypto questions\n\n"+
		"*📝 Example commands:*\n"+
		"• \"my ETH balance\"\n"+
		"• \"ETH price\"\n"+
		"• \"send 0.1 ETH to 0x123...\"\n"+
		"• \"what is yield farming\"\n"+
		"• \"current gas fees\"\n\n"+
		"*🔒 Security:* I never ask for private keys or execute transactions!",
		walletStatus)
}

// handleGreeting 返回欢迎语，已绑定钱包的用户会看到自己的地址。
func (a *Agent) handleGreeting(ctx context.Context, userKey string) string {
	walletLine := "💳 Send me your wallet address to get started!"
	if sess, ok, err := a.sessions.Get(ctx, userKey); err == nil && ok && sess.WalletAddress != "" {
		walletLine = "🎯 Ready to help with your wallet: " + format.ShortAddress(sess.WalletAddress)
	}

	return fmt.Sprintf("👋 Hello! I'm your DeFi assistant!\n\n"+
		"%s\n\n"+
		"💡 Try asking:\n"+
		"• \"my balance\"\n"+
		"• \"ETH price\"\n"+
		"• \"what is DeFi\"\n"+
		"• \"help\"\n\n"+
		"What would you like to know? 🚀",
		walletLine)
}

// handleGeneral 将未命中意图的消息交给大模型兜底。
func (a *Agent) handleGeneral(ctx context.Context, userKey, body string) string {
	if a.llmClient == nil {
		return fallbackReply
	}

	walletContext := "No wallet saved"
	if sess, ok, err := a.sessions.Get(ctx, userKey); err == nil && ok && sess.WalletAddress != "" {
		walletContext = "User has wallet: " + format.ShortAddress(sess.WalletAddress)
	}
	if recent := a.recentTurns(ctx, userKey, 3); recent != "" {
		walletContext += "\nRecent conversation:\n" + recent
	}

	llmCtx := ctx
	if a.llmTimeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, a.llmTimeout)
		defer cancel()
	}

	resp, err := a.llmClient.Complete(llmCtx, llm.Request{
		SystemPrompt: llmSystemPrompt + "\n\nContext: " + walletContext,
		UserMessage:  body,
	})
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) {
			err = xerrors.Wrap(xerrors.CodeTimeout, err, "大模型兜底回复超时")
		}
		a.reportProviderError(ctx, "llm", userKey, string(intent.IntentGeneral), err)
		return errorReply
	}
	if strings.TrimSpace(resp.Text) == "" {
		return fallbackReply
	}
	return resp.Text
}

// recentTurns 拼装用户最近几条消息，作为兜底回复的上下文。
// 记录按时间正序排列，失败时返回空串。
func (a *Agent) recentTurns(ctx context.Context, userKey string, limit int) string {
	if a.repository == nil {
		return ""
	}
	records, err := a.repository.ListRecent(ctx, userKey, limit)
	if err != nil || len(records) == 0 {
		return ""
	}

	var builder strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		fmt.Fprintf(&builder, "User: %s\n", records[i].Body)
	}
	return strings.TrimRight(builder.String(), "\n")
}
