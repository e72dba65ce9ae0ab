package intent

import "testing"

func TestClassifyWalletAddressOverride(t *testing.T) {
	c := NewClassifier(nil)

	address := "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8"
	result := c.Classify(address)
	if result.Intent != IntentWalletAddress {
		t.Fatalf("expected wallet_address, got %s", result.Intent)
	}
	if result.Entities[EntityAddress] != address {
		t.Fatalf("expected address entity, got %q", result.Entities[EntityAddress])
	}

	// 前后空白不影响全串匹配。
	result = c.Classify("  " + address + "  ")
	if result.Intent != IntentWalletAddress {
		t.Fatalf("expected wallet_address after trimming, got %s", result.Intent)
	}
}

func TestClassifyWalletAddressWinsOverKeywords(t *testing.T) {
	c := NewClassifier(nil)

	// 即便地址里包含数字，全串地址也不会被当作其他意图。
	cases := []string{
		"0x0000000000000000000000000000000000000000",
		"0xABCDEFabcdef0123456789ABCDEFabcdef012345",
	}
	for _, message := range cases {
		if got := c.Classify(message).Intent; got != IntentWalletAddress {
			t.Fatalf("message %q: expected wallet_address, got %s", message, got)
		}
	}

	// 地址嵌在句子里则不再是 wallet_address。
	result := c.Classify("my wallet is 0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8")
	if result.Intent == IntentWalletAddress {
		t.Fatalf("embedded address must not trigger the override")
	}
	if result.Entities[EntityRecipient] != "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8e8" {
		t.Fatalf("embedded address should be extracted as recipient")
	}
}

func TestClassifyBalanceCheckWithToken(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("what's my ETH balance")
	if result.Intent != IntentBalanceCheck {
		t.Fatalf("expected balance_check, got %s", result.Intent)
	}
	if result.Entities[EntityToken] != "ETH" {
		t.Fatalf("expected token ETH, got %q", result.Entities[EntityToken])
	}
}

func TestClassifyTokenAliasCanonicalisation(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("what is bitcoin worth right now")
	if result.Intent != IntentPriceCheck {
		t.Fatalf("expected price_check, got %s", result.Intent)
	}
	if result.Entities[EntityToken] != "BTC" {
		t.Fatalf("expected alias bitcoin to map to BTC, got %q", result.Entities[EntityToken])
	}
}

func TestClassifyTransferEntities(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("send 0.5 ETH to 0x1234567890123456789012345678901234567890")
	if result.Intent != IntentTransfer {
		t.Fatalf("expected transfer, got %s", result.Intent)
	}
	if result.Entities[EntityAmount] != "0.5" {
		t.Fatalf("expected amount 0.5, got %q", result.Entities[EntityAmount])
	}
	if result.Entities[EntityRecipient] != "0x1234567890123456789012345678901234567890" {
		t.Fatalf("unexpected recipient: %q", result.Entities[EntityRecipient])
	}
}

func TestClassifyFallsBackToGeneral(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("purple elephant migration patterns")
	if result.Intent != IntentGeneral {
		t.Fatalf("expected general, got %s", result.Intent)
	}
}

func TestClassifyTieBreakFollowsRegistrationOrder(t *testing.T) {
	c := NewClassifier([]Definition{
		{Name: "first", Keywords: []string{"ping"}},
		{Name: "second", Keywords: []string{"ping"}},
	})

	// 两个意图各得 1 分，先注册的意图必须胜出。
	result := c.Classify("ping")
	if result.Intent != "first" {
		t.Fatalf("expected first registered intent to win the tie, got %s", result.Intent)
	}
}

func TestClassifyGreeting(t *testing.T) {
	c := NewClassifier(nil)

	for _, message := range []string{"hello", "hi there", "good morning"} {
		if got := c.Classify(message).Intent; got != IntentGreeting {
			t.Fatalf("message %q: expected greeting, got %s", message, got)
		}
	}
}

func TestClassifyGasFees(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("current gas fees")
	if result.Intent != IntentGasFees {
		t.Fatalf("expected gas_fees, got %s", result.Intent)
	}
}

func TestResultTokenFallback(t *testing.T) {
	r := Result{Entities: map[string]string{}}
	if r.Token("ETH") != "ETH" {
		t.Fatalf("expected fallback token")
	}
	r.Entities[EntityToken] = "USDC"
	if r.Token("ETH") != "USDC" {
		t.Fatalf("expected extracted token to win")
	}
}
