package web3

import (
	"context"
	"strings"
	"sync"
)

// MockBalanceProvider serves balances from a fixed in-memory table.
// It backs demos and tests where no RPC endpoint is available.
type MockBalanceProvider struct {
	mu       sync.RWMutex
	balances map[string]float64
}

// NewMockBalanceProvider returns a provider pre-seeded with a small
// demo portfolio. Unknown tokens read as zero.
func NewMockBalanceProvider() *MockBalanceProvider {
	return &MockBalanceProvider{
		balances: map[string]float64{
			"ETH":  2.847291,
			"USDC": 1847.32,
			"USDT": 892.15,
			"DAI":  456.78,
			"BTC":  0.0234,
		},
	}
}

// Balance implements BalanceProvider. The address is ignored, every
// wallet sees the same portfolio.
func (m *MockBalanceProvider) Balance(_ context.Context, _ string, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[strings.ToUpper(symbol)], nil
}

// SetBalance overrides one entry of the table. Tests use it to shape
// scenarios.
func (m *MockBalanceProvider) SetBalance(symbol string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[strings.ToUpper(symbol)] = value
}

var _ BalanceProvider = (*MockBalanceProvider)(nil)
