package web3

import (
	"context"
	"testing"
)

func TestMockBalanceProviderKnownToken(t *testing.T) {
	p := NewMockBalanceProvider()
	got, err := p.Balance(context.Background(), "0x742d35Cc6634C0532925a3b844Bc9e7595f8d8e8", "eth")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if got != 2.847291 {
		t.Fatalf("expected demo ETH balance, got %v", got)
	}
}

func TestMockBalanceProviderUnknownTokenReadsZero(t *testing.T) {
	p := NewMockBalanceProvider()
	got, err := p.Balance(context.Background(), "0x742d35Cc6634C0532925a3b844Bc9e7595f8d8e8", "PEPE")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected zero balance, got %v", got)
	}
}

func TestMockBalanceProviderOverride(t *testing.T) {
	p := NewMockBalanceProvider()
	p.SetBalance("usdc", 5)
	got, err := p.Balance(context.Background(), "", "USDC")
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if got != 5 {
		t.Fatalf("expected overridden balance, got %v", got)
	}
}

func TestChainConfigTokenLookup(t *testing.T) {
	cfg := DefaultChainConfig()
	addr, ok := cfg.TokenAddress("usdt")
	if !ok {
		t.Fatal("expected USDT contract to be registered")
	}
	if addr != "0xdAC17F958D2ee523a2206206994597C13D831ec7" {
		t.Fatalf("unexpected USDT contract: %s", addr)
	}
	if _, ok := cfg.TokenAddress("SHIB"); ok {
		t.Fatal("did not expect SHIB contract")
	}
}
