package knowledge

// DefaultCards 返回内置的 DeFi 科普卡片。
// 最后一张没有关键词，作为兜底的总览内容。
func DefaultCards() []Card {
	return []Card{
		{
			Title:    "Uniswap & DEXs",
			Keywords: []string{"uniswap", "dex", "swap"},
			Content: "🦄 *Uniswap & DEXs*\n\n" +
				"Decentralized exchanges let you trade tokens directly from your wallet without intermediaries.\n\n" +
				"🔹 *How it works:* Automated Market Makers (AMM)\n" +
				"🔹 *Benefits:* No KYC, global access, you control funds\n" +
				"🔹 *Popular DEXs:* Uniswap, SushiSwap, PancakeSwap\n\n" +
				"⚠️ *Remember:* Always check token contracts and slippage!",
		},
		{
			Title:    "Yield Farming & Staking",
			Keywords: []string{"yield", "farming", "staking"},
			Content: "🌾 *Yield Farming & Staking*\n\n" +
				"Earn rewards by providing liquidity or staking tokens.\n\n" +
				"🔹 *Yield Farming:* Provide liquidity to earn fees + rewards\n" +
				"🔹 *Staking:* Lock tokens to secure networks, earn rewards\n" +
				"🔹 *APY:* Annual Percentage Yield (can be high but risky)\n\n" +
				"⚠️ *Risks:* Impermanent loss, smart contract bugs, market volatility",
		},
		{
			Title:    "DeFi Lending & Borrowing",
			Keywords: []string{"lending", "borrowing", "aave", "compound"},
			Content: "🏦 *DeFi Lending & Borrowing*\n\n" +
				"Lend your crypto to earn interest or borrow against collateral.\n\n" +
				"🔹 *Lending:* Deposit tokens, earn interest\n" +
				"🔹 *Borrowing:* Use crypto as collateral for loans\n" +
				"🔹 *Platforms:* Aave, Compound, MakerDAO\n\n" +
				"⚠️ *Watch out:* Liquidation risk, interest rate changes",
		},
		{
			Title: "DeFi Overview",
			Content: "🔗 *DeFi (Decentralized Finance)*\n\n" +
				"Financial services built on blockchain without traditional banks.\n\n" +
				"🔹 *Core Features:*\n" +
				"• Decentralized exchanges (DEXs)\n" +
				"• Lending & borrowing protocols\n" +
				"• Yield farming & staking\n" +
				"• Smart contracts automation\n\n" +
				"🔹 *Popular Platforms:*\n" +
				"• Uniswap (trading)\n" +
				"• Aave (lending)\n" +
				"• Compound (borrowing)\n" +
				"• MakerDAO (stablecoins)\n\n" +
				"💡 *Start small, learn gradually, never invest more than you can afford to lose!*",
		},
	}
}
