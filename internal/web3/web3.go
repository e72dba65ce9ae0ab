// Package web3 defines the narrow provider interfaces the assistant
// uses to read on-chain data. Concrete backends live in subpackages.
package web3

import "context"

// BalanceProvider resolves the balance of a wallet for one token.
// Values are returned in human units (ether, not wei).
type BalanceProvider interface {
	Balance(ctx context.Context, address, symbol string) (float64, error)
}

// GasTiers carries the three fee tiers in gwei, plus the backend that
// produced them so replies can state the data source.
type GasTiers struct {
	Safe     int64
	Standard int64
	Fast     int64
	Source   string
}

// GasProvider resolves current network fee tiers.
type GasProvider interface {
	GasTiers(ctx context.Context) (GasTiers, error)
}
